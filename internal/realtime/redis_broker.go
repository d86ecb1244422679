package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

type redisPubSub interface {
	Publish(ctx context.Context, channel string, payload any) error
	Subscribe(ctx context.Context, channels ...string) (*goredis.PubSub, error)
	ChannelName(name string) string
}

// RedisBroker fans events out over a redis pub/sub channel.
type RedisBroker struct {
	client  redisPubSub
	channel string
	hub     *Hub
	logg    *logger.Logger
}

func NewRedisBroker(client redisPubSub, channel string, hub *Hub, logg *logger.Logger) (*RedisBroker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RedisBroker{client: client, channel: client.ChannelName(channel), hub: hub, logg: logg}, nil
}

func (t *RedisBroker) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return t.client.Publish(ctx, t.channel, data)
}

func (t *RedisBroker) Run(ctx context.Context) error {
	sub, err := t.client.Subscribe(ctx, t.channel)
	if err != nil {
		return err
	}
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("redis subscription closed")
			}
			t.deliver(ctx, []byte(msg.Payload))
		}
	}
}

func (t *RedisBroker) deliver(ctx context.Context, payload []byte) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		t.logg.Error(t.logg.WithField(ctx, "channel", t.channel), "failed to decode change event", err)
		return
	}
	_ = t.hub.Publish(ctx, evt)
}

func (t *RedisBroker) Close() error { return nil }
