package orders

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/internal/realtime"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

// BuildBoard groups orders into one column per forward stage, oldest first so the
// kitchen works in arrival order. Cancelled and unknown statuses are left out.
func BuildBoard(orders []models.Order) Board {
	columns := make([]Column, len(enums.OrderStages))
	for i, stage := range enums.OrderStages {
		columns[i] = Column{Status: stage, Title: title(stage), Orders: []Card{}}
	}
	total := 0
	for _, order := range orders {
		idx := order.Status.StageIndex()
		if idx < 0 {
			continue
		}
		card := Card{Order: order, ShortID: notifications.ShortID(order.ID)}
		if next, ok := NextStatus(order.Status); ok {
			card.NextStatus = &next
		}
		columns[idx].Orders = append(columns[idx].Orders, card)
		total++
	}
	for i := range columns {
		sort.SliceStable(columns[i].Orders, func(a, b int) bool {
			return columns[i].Orders[a].CreatedAt.Before(columns[i].Orders[b].CreatedAt)
		})
		columns[i].Count = len(columns[i].Orders)
	}
	return Board{Columns: columns, Total: total}
}

func title(s enums.OrderStatus) string {
	v := string(s)
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

type boardLoader interface {
	ListBoard(ctx context.Context, closedSince time.Time) ([]models.Order, error)
}

const (
	reseedBaseDelay = 250 * time.Millisecond
	reseedMaxDelay  = 10 * time.Second
)

// BoardMirror keeps an in-memory copy of the kitchen board current from the
// change feed so the kanban endpoint does not hit the database.
type BoardMirror struct {
	index     *realtime.Index[models.Order]
	hub       *realtime.Hub
	loader    boardLoader
	window    time.Duration
	logg      *logger.Logger
	now       func() time.Time
	ready     atomic.Bool
	retryBase time.Duration
	retryMax  time.Duration
}

// NewBoardMirror builds a mirror holding every open order plus completed and
// cancelled orders created within window.
func NewBoardMirror(hub *realtime.Hub, loader boardLoader, window time.Duration, logg *logger.Logger) *BoardMirror {
	if window <= 0 {
		window = 24 * time.Hour
	}
	m := &BoardMirror{
		hub:       hub,
		loader:    loader,
		window:    window,
		logg:      logg,
		now:       time.Now,
		retryBase: reseedBaseDelay,
		retryMax:  reseedMaxDelay,
	}
	m.index = realtime.NewIndex(enums.CollectionOrders,
		func(o models.Order) uuid.UUID { return o.ID },
		m.onBoard,
	)
	return m
}

func (m *BoardMirror) onBoard(o models.Order) bool {
	return !o.Status.IsTerminal() || o.CreatedAt.After(m.closedSince())
}

func (m *BoardMirror) closedSince() time.Time {
	return m.now().Add(-m.window)
}

// Run seeds the mirror and follows the change feed until ctx ends. Only a
// failed first seed is returned. A subscription dropped for lagging is
// replaced and the mirror reseeded, retrying with backoff while the store is
// unavailable; the mirror reports not ready until the reseed succeeds.
func (m *BoardMirror) Run(ctx context.Context) error {
	sub := m.hub.Subscribe(realtime.Filter{Collection: enums.CollectionOrders})
	if err := m.seed(ctx); err != nil {
		sub.Close()
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	for {
		m.ready.Store(true)
		m.index.Follow(ctx, sub)
		lagged := sub.Lagged()
		sub.Close()
		if ctx.Err() != nil {
			return nil
		}
		m.ready.Store(false)
		if lagged && m.logg != nil {
			m.logg.Warn(ctx, "board mirror lagged; reseeding")
		}

		var backoff time.Duration
		for {
			sub = m.hub.Subscribe(realtime.Filter{Collection: enums.CollectionOrders})
			err := m.seed(ctx)
			if err == nil {
				break
			}
			sub.Close()
			if ctx.Err() != nil {
				return nil
			}
			if m.logg != nil {
				m.logg.Error(ctx, "board mirror reseed failed", err)
			}
			backoff = nextBackoff(backoff, m.retryBase, m.retryMax)
			if err := sleep(ctx, backoff); err != nil {
				return nil
			}
		}
	}
}

func (m *BoardMirror) seed(ctx context.Context) error {
	rows, err := m.loader.ListBoard(ctx, m.closedSince())
	if err != nil {
		return err
	}
	m.index.Seed(rows)
	return nil
}

// Ready reports whether the mirror currently reflects the store. It is false
// before the first seed and while a reseed is pending.
func (m *BoardMirror) Ready() bool {
	return m.ready.Load()
}

// Orders returns the mirrored orders.
func (m *BoardMirror) Orders() []models.Order {
	return m.index.Snapshot()
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		return base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
