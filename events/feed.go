// Package events is the in-process feed of admin events. Mutations publish
// onto a feed; each subscription transport connection drains its own
// subscription so slow consumers do not block publishers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/mempubsub"
)

const ackDeadline = 10 * time.Second

// Feed is a broadcast topic for admin events.
type Feed struct {
	topic *pubsub.Topic
}

// NewFeed creates an in-memory feed.
func NewFeed() *Feed {
	return &Feed{topic: mempubsub.NewTopic()}
}

// Publish sends one event to every current subscriber. The payload is
// marshalled to JSON.
func (f *Feed) Publish(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return f.topic.Send(ctx, &pubsub.Message{Body: body})
}

// Subscribe attaches a new subscriber. Only events published after the
// subscription exists are delivered to it.
func (f *Feed) Subscribe() *Subscription {
	return &Subscription{sub: mempubsub.NewSubscription(f.topic, ackDeadline)}
}

// Shutdown closes the feed for publishing.
func (f *Feed) Shutdown(ctx context.Context) error {
	return f.topic.Shutdown(ctx)
}

// Subscription is one subscriber's view of a feed.
type Subscription struct {
	sub *pubsub.Subscription
}

// Next blocks until the next event arrives or the context is cancelled,
// and returns the event's JSON payload.
func (s *Subscription) Next(ctx context.Context) ([]byte, error) {
	msg, err := s.sub.Receive(ctx)
	if err != nil {
		return nil, err
	}
	msg.Ack()
	return msg.Body, nil
}

// Shutdown detaches the subscriber from the feed.
func (s *Subscription) Shutdown(ctx context.Context) error {
	return s.sub.Shutdown(ctx)
}

type payloadKeyType int

const payloadKey payloadKeyType = 0

// NewContext attaches an event payload for subscription resolvers.
func NewContext(ctx context.Context, payload []byte) context.Context {
	return context.WithValue(ctx, payloadKey, payload)
}

// FromContext returns the event payload attached to the context, or nil.
func FromContext(ctx context.Context) []byte {
	if payload, ok := ctx.Value(payloadKey).([]byte); ok {
		return payload
	}
	return nil
}
