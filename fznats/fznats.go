// Package fznats provides an embedded NATS server with JetStream as the
// pub/sub backend for friend zone events.
package fznats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats.go"

	"github.com/ryanhamamura/friendzone"
)

const (
	// StreamName is the JetStream stream that retains friend zone events.
	StreamName = "FRIENDZONE"

	streamMaxAge = 24 * time.Hour
	drainTimeout = 10 * time.Second
)

var _ friendzone.PubSub = (*NATS)(nil)

// NATS implements friendzone.PubSub using an embedded NATS server with JetStream.
type NATS struct {
	server *embeddednats.Server
	nc     *nats.Conn
	js     nats.JetStreamContext
	stop   context.CancelFunc
	closed chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// New starts an embedded NATS server with JetStream enabled, makes sure the
// friend zone stream exists and returns a ready-to-use NATS instance. The
// server stores data in dataDir and runs until Close, which drains pending
// publishes first. Cancelling ctx does not stop it.
func New(ctx context.Context, dataDir string) (*NATS, error) {
	return start(ctx, embeddednats.WithDirectory(dataDir))
}

func start(ctx context.Context, opts ...embeddednats.Option) (*NATS, error) {
	serverCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	ns, err := embeddednats.New(serverCtx, opts...)
	if err != nil {
		stop()
		return nil, fmt.Errorf("fznats: start server: %w", err)
	}
	ns.WaitForServer()

	nc, err := ns.Client()
	if err != nil {
		ns.Close()
		stop()
		return nil, fmt.Errorf("fznats: connect client: %w", err)
	}
	closed := make(chan struct{})
	nc.SetClosedHandler(func(*nats.Conn) { close(closed) })

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Close()
		stop()
		return nil, fmt.Errorf("fznats: init jetstream: %w", err)
	}

	if _, err := js.StreamInfo(StreamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{"friendzone.>"},
			MaxAge:   streamMaxAge,
		})
		if err != nil {
			nc.Close()
			ns.Close()
			stop()
			return nil, fmt.Errorf("fznats: add stream: %w", err)
		}
	}

	return &NATS{server: ns, nc: nc, js: js, stop: stop, closed: closed}, nil
}

// Publish sends data to the given subject using core NATS publish.
// JetStream captures it through the friend zone stream.
func (n *NATS) Publish(subject string, data []byte) error {
	return n.nc.Publish(subject, data)
}

// Subscribe creates a core NATS subscription for real-time fan-out delivery.
func (n *NATS) Subscribe(subject string, handler func(data []byte)) (friendzone.Subscription, error) {
	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Close drains the client connection, waits for the drain to finish and then
// shuts down the embedded server. Later calls return the first result.
func (n *NATS) Close() error {
	n.closeOnce.Do(func() {
		n.closeErr = n.drain()
		n.server.Close()
		n.stop()
	})
	return n.closeErr
}

func (n *NATS) drain() error {
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
		return fmt.Errorf("fznats: drain: %w", err)
	}
	select {
	case <-n.closed:
		return nil
	case <-time.After(drainTimeout):
		n.nc.Close()
		return fmt.Errorf("fznats: drain did not finish within %s", drainTimeout)
	}
}
