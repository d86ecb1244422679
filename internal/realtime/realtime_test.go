package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

type row struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func rowKey(r row) uuid.UUID { return r.ID }

func mustEvent(t *testing.T, kind enums.ChangeKind, r row) Event {
	t.Helper()
	evt, err := NewEvent(enums.CollectionOrders, kind, r.ID, nil, r, time.Now())
	require.NoError(t, err)
	return evt
}

func TestReduceInsertUpdateDelete(t *testing.T) {
	a := row{ID: uuid.New(), Status: "pending"}
	b := row{ID: uuid.New(), Status: "pending"}

	rows := Reduce(nil, mustEvent(t, enums.ChangeInsert, a), rowKey)
	rows = Reduce(rows, mustEvent(t, enums.ChangeInsert, b), rowKey)
	require.Len(t, rows, 2)
	assert.Equal(t, b.ID, rows[0].ID, "inserts go to the front")

	a.Status = "confirmed"
	rows = Reduce(rows, mustEvent(t, enums.ChangeUpdate, a), rowKey)
	require.Len(t, rows, 2)
	assert.Equal(t, "confirmed", rows[1].Status)

	rows = Reduce(rows, mustEvent(t, enums.ChangeDelete, b), rowKey)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)
}

func TestReduceUpdateOfUnknownRowInserts(t *testing.T) {
	a := row{ID: uuid.New(), Status: "ready"}
	rows := Reduce(nil, mustEvent(t, enums.ChangeUpdate, a), rowKey)
	require.Len(t, rows, 1)
	assert.Equal(t, "ready", rows[0].Status)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	a := row{ID: uuid.New(), Status: "pending"}
	rows := []row{a}
	a.Status = "confirmed"
	_ = Reduce(rows, mustEvent(t, enums.ChangeUpdate, a), rowKey)
	assert.Equal(t, "pending", rows[0].Status)
}

func TestReduceIgnoresUndecodableRow(t *testing.T) {
	id := uuid.New()
	evt := Event{Collection: enums.CollectionOrders, Kind: enums.ChangeInsert, Key: id, Row: []byte("{not json")}
	rows := Reduce([]row{{ID: uuid.New()}}, evt, rowKey)
	assert.Len(t, rows, 1)
}

func TestIndexKeepEvictsRows(t *testing.T) {
	idx := NewIndex(enums.CollectionOrders, rowKey, func(r row) bool { return r.Status != "completed" })
	a := row{ID: uuid.New(), Status: "ready"}
	idx.Seed([]row{a})
	require.Equal(t, 1, idx.Len())

	a.Status = "completed"
	idx.Apply(mustEvent(t, enums.ChangeUpdate, a))
	assert.Equal(t, 0, idx.Len())
}

func TestIndexIgnoresOtherCollections(t *testing.T) {
	idx := NewIndex[row](enums.CollectionOrders, rowKey, nil)
	r := row{ID: uuid.New()}
	evt, err := NewEvent(enums.CollectionInventory, enums.ChangeInsert, r.ID, nil, r, time.Now())
	require.NoError(t, err)
	idx.Apply(evt)
	assert.Equal(t, 0, idx.Len())
}

func TestNewEventValidates(t *testing.T) {
	_, err := NewEvent("bogus", enums.ChangeInsert, uuid.New(), nil, nil, time.Now())
	assert.Error(t, err)
	_, err = NewEvent(enums.CollectionOrders, "UPSERT", uuid.New(), nil, nil, time.Now())
	assert.Error(t, err)
	_, err = NewEvent(enums.CollectionOrders, enums.ChangeInsert, uuid.Nil, nil, nil, time.Now())
	assert.Error(t, err)
}

func TestHubFiltersByOwner(t *testing.T) {
	hub := NewHub(4)
	owner := uuid.New()
	other := uuid.New()
	sub := hub.Subscribe(Filter{Collection: enums.CollectionNotifications, UserID: &owner})
	defer sub.Close()

	ctx := context.Background()
	for _, id := range []uuid.UUID{other, owner} {
		uid := id
		evt, err := NewEvent(enums.CollectionNotifications, enums.ChangeInsert, uuid.New(), &uid, map[string]string{"user_id": uid.String()}, time.Now())
		require.NoError(t, err)
		require.NoError(t, hub.Publish(ctx, evt))
	}

	select {
	case evt := <-sub.C:
		require.NotNil(t, evt.UserID)
		assert.Equal(t, owner, *evt.UserID)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
	select {
	case evt := <-sub.C:
		t.Fatalf("unexpected event %+v", evt)
	default:
	}
}

func TestHubClosesSlowSubscriber(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(Filter{Collection: enums.CollectionOrders})
	ctx := context.Background()

	require.NoError(t, hub.Publish(ctx, mustEvent(t, enums.ChangeInsert, row{ID: uuid.New()})))
	require.NoError(t, hub.Publish(ctx, mustEvent(t, enums.ChangeInsert, row{ID: uuid.New()})))

	assert.True(t, sub.Lagged())
	assert.Equal(t, 0, hub.Len())
	<-sub.C
	_, ok := <-sub.C
	assert.False(t, ok)
	sub.Close()
}

func TestIndexFollow(t *testing.T) {
	hub := NewHub(8)
	idx := NewIndex[row](enums.CollectionOrders, rowKey, nil)
	sub := hub.Subscribe(Filter{Collection: enums.CollectionOrders})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		idx.Follow(ctx, sub)
		close(done)
	}()

	require.NoError(t, hub.Publish(ctx, mustEvent(t, enums.ChangeInsert, row{ID: uuid.New()})))
	assert.Eventually(t, func() bool { return idx.Len() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
	sub.Close()
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt Event) error {
	r.events = append(r.events, evt)
	return r.err
}

func TestEmitterNilSafe(t *testing.T) {
	var e *Emitter
	e.Emit(context.Background(), enums.CollectionOrders, enums.ChangeInsert, uuid.New(), nil, nil)

	pub := &recordingPublisher{}
	NewEmitter(pub, nil, nil).Emit(context.Background(), enums.CollectionOrders, enums.ChangeInsert, uuid.New(), nil, row{})
	assert.Len(t, pub.events, 1)
}
