package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

// PubSubBroker carries events over a GCP Pub/Sub topic. Each API instance needs
// its own subscription so that every instance sees every event.
type PubSubBroker struct {
	publisher  *pubsub.Publisher
	subscriber *pubsub.Subscriber
	hub        *Hub
	logg       *logger.Logger
}

func NewPubSubBroker(publisher *pubsub.Publisher, subscriber *pubsub.Subscriber, hub *Hub, logg *logger.Logger) (*PubSubBroker, error) {
	if publisher == nil {
		return nil, fmt.Errorf("changes publisher required")
	}
	if subscriber == nil {
		return nil, fmt.Errorf("changes subscription required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &PubSubBroker{publisher: publisher, subscriber: subscriber, hub: hub, logg: logg}, nil
}

func (t *PubSubBroker) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	result := t.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"collection": string(evt.Collection),
			"kind":       string(evt.Kind),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

func (t *PubSubBroker) Run(ctx context.Context) error {
	return t.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		var evt Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			t.logg.Error(t.logg.WithField(ctx, "message_id", msg.ID), "failed to decode change event", err)
			msg.Ack()
			return
		}
		_ = t.hub.Publish(ctx, evt)
		msg.Ack()
	})
}

// Close flushes pending publishes.
func (t *PubSubBroker) Close() error {
	t.publisher.Stop()
	return nil
}
