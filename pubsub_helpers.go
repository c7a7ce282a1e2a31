package friendzone

import (
	"encoding/json"
	"errors"
)

var errNoPubSub = errors.New("pubsub not configured")

// Publish JSON-marshals msg and publishes to subject.
func Publish[T any](ps PubSub, subject string, msg T) error {
	if ps == nil {
		return errNoPubSub
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ps.Publish(subject, data)
}

// Subscribe JSON-unmarshals each message as T and calls handler.
// Messages that do not decode are skipped.
func Subscribe[T any](ps PubSub, subject string, handler func(T)) (Subscription, error) {
	if ps == nil {
		return nil, errNoPubSub
	}
	return ps.Subscribe(subject, func(data []byte) {
		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		handler(msg)
	})
}
