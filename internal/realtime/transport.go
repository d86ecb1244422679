package realtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/pubsub"
	"github.com/angelmondragon/canteen-backend/pkg/redis"
)

// TransportParams selects and wires the change feed transport.
type TransportParams struct {
	Config *config.Config
	Hub    *Hub
	Redis  *redis.Client
	Logger *logger.Logger
}

// OpenBroker builds the broker named by CANTEEN_REALTIME_TRANSPORT. The returned
// close func releases the broker and any client it opened.
func OpenBroker(ctx context.Context, params TransportParams) (Broker, func() error, error) {
	cfg := params.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Realtime.Transport)) {
	case config.RealtimeTransportMemory:
		broker, err := NewMemoryBroker(params.Hub)
		if err != nil {
			return nil, nil, err
		}
		return broker, broker.Close, nil

	case config.RealtimeTransportRedis:
		if params.Redis == nil {
			return nil, nil, fmt.Errorf("redis transport requires a redis client")
		}
		broker, err := NewRedisBroker(params.Redis, cfg.Realtime.Channel, params.Hub, params.Logger)
		if err != nil {
			return nil, nil, err
		}
		return broker, broker.Close, nil

	case config.RealtimeTransportPubSub:
		client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, params.Logger)
		if err != nil {
			return nil, nil, err
		}
		broker, err := NewPubSubBroker(client.ChangesPublisher(), client.ChangesSubscriber(), params.Hub, params.Logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		closeFn := func() error {
			_ = broker.Close()
			return client.Close()
		}
		return broker, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported realtime transport %q", cfg.Realtime.Transport)
	}
}
