package friendzone

import "time"

// SubjectFriendAdded is the subject every counted submission is published on.
const SubjectFriendAdded = "friendzone.friends.added"

// PubSub is an interface for publish/subscribe messaging backends.
// The fznats sub-package provides an embedded NATS implementation.
type PubSub interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (Subscription, error)
	Close() error
}

// Subscription represents an active subscription that can be manually unsubscribed.
type Subscription interface {
	Unsubscribe() error
}

// FriendAdded is published after a qualifying submission. It carries no
// session token.
type FriendAdded struct {
	Count  int       `json:"count"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}
