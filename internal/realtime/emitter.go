package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
)

// Emitter turns committed writes into change events. Publish failures are logged
// and never fail the write that produced them.
type Emitter struct {
	pub     Publisher
	logg    *logger.Logger
	metrics *metrics.CanteenMetrics
	now     func() time.Time
}

func NewEmitter(pub Publisher, logg *logger.Logger, m *metrics.CanteenMetrics) *Emitter {
	return &Emitter{pub: pub, logg: logg, metrics: m, now: time.Now}
}

// Emit publishes one change. A nil emitter is a no-op.
func (e *Emitter) Emit(ctx context.Context, collection enums.Collection, kind enums.ChangeKind, key uuid.UUID, owner *uuid.UUID, row any) {
	if e == nil || e.pub == nil {
		return
	}
	evt, err := NewEvent(collection, kind, key, owner, row, e.now())
	if err == nil {
		err = e.pub.Publish(ctx, evt)
	}
	if err != nil {
		if e.logg != nil {
			logCtx := e.logg.WithFields(ctx, map[string]any{
				"collection": string(collection),
				"kind":       string(kind),
				"key":        key.String(),
			})
			e.logg.Error(logCtx, "failed to publish change event", err)
		}
		return
	}
	e.metrics.IncRealtimeEvent(string(collection), string(kind))
}
