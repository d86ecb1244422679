package realtime

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	redisclient "github.com/angelmondragon/canteen-backend/pkg/redis"
)

func TestRedisBrokerRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = raw.Close() })

	hub := NewHub(8)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	broker, err := NewRedisBroker(redisclient.Wrap(raw), "changes", hub, logg)
	require.NoError(t, err)

	sub := hub.Subscribe(Filter{Collection: enums.CollectionOrders})
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = broker.Run(ctx) }()

	r := row{ID: uuid.New(), Status: "pending"}
	evt := mustEvent(t, enums.ChangeInsert, r)
	require.Eventually(t, func() bool {
		return srv.PubSubNumSub("canteen:channel:changes")["canteen:channel:changes"] > 0
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, broker.Publish(ctx, evt))

	select {
	case got := <-sub.C:
		assert.Equal(t, r.ID, got.Key)
		decoded, err := Decode[row](got)
		require.NoError(t, err)
		assert.Equal(t, "pending", decoded.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("expected event from redis")
	}
}

func TestMemoryBrokerPublishesToHub(t *testing.T) {
	hub := NewHub(2)
	broker, err := NewMemoryBroker(hub)
	require.NoError(t, err)
	sub := hub.Subscribe(Filter{Collection: enums.CollectionOrders})
	defer sub.Close()

	require.NoError(t, broker.Publish(context.Background(), mustEvent(t, enums.ChangeInsert, row{ID: uuid.New()})))
	assert.Len(t, sub.C, 1)
}

func TestTransportConstructorsValidate(t *testing.T) {
	_, err := NewMemoryBroker(nil)
	assert.Error(t, err)
	_, err = NewRedisBroker(nil, "changes", NewHub(1), nil)
	assert.Error(t, err)
	_, err = NewPubSubBroker(nil, nil, NewHub(1), nil)
	assert.Error(t, err)
}
