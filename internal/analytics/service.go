package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/canteen-backend/internal/analytics/types"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

const dashboardCacheKey = "analytics:dashboard"

type ordersLoader interface {
	ListAll(ctx context.Context) ([]models.Order, error)
	ListAllForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type menuLoader interface {
	ListWithOrderItems(ctx context.Context) ([]models.MenuItem, error)
}

type inventoryLoader interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
}

type statsLoader interface {
	List(ctx context.Context) ([]models.UserStats, error)
	GetOrDefault(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

type reportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service serves the dashboards.
type Service interface {
	Dashboard(ctx context.Context) (*types.Report, error)
	Student(ctx context.Context, userID uuid.UUID) (*types.StudentReport, error)
	Overview(ctx context.Context) (*types.Overview, error)
}

// ServiceParams wires the analytics loaders. Cache is optional.
type ServiceParams struct {
	Orders    ordersLoader
	Menu      menuLoader
	Inventory inventoryLoader
	Stats     statsLoader
	Cache     reportCache
	CacheTTL  time.Duration
	Location  *time.Location
	LowFactor decimal.Decimal
	Logger    *logger.Logger
}

type service struct {
	orders    ordersLoader
	menu      menuLoader
	inventory inventoryLoader
	stats     statsLoader
	cache     reportCache
	cacheTTL  time.Duration
	loc       *time.Location
	lowFactor decimal.Decimal
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders loader required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory loader required")
	}
	if params.Stats == nil {
		return nil, fmt.Errorf("stats loader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	factor := params.LowFactor
	if !factor.IsPositive() {
		factor = inventory.DefaultLowFactor
	}
	return &service{
		orders:    params.Orders,
		menu:      params.Menu,
		inventory: params.Inventory,
		stats:     params.Stats,
		cache:     params.Cache,
		cacheTTL:  params.CacheTTL,
		loc:       location(params.Location),
		lowFactor: factor,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// loadGroup runs collection loads concurrently. A failed load is logged and
// recorded as degraded; only context cancellation fails the group.
type loadGroup struct {
	ctx      context.Context
	group    *errgroup.Group
	logg     *logger.Logger
	mu       sync.Mutex
	degraded []string
}

func newLoadGroup(ctx context.Context, logg *logger.Logger) *loadGroup {
	group, gctx := errgroup.WithContext(ctx)
	return &loadGroup{ctx: gctx, group: group, logg: logg}
}

func (g *loadGroup) load(collection enums.Collection, fn func(ctx context.Context) error) {
	g.group.Go(func() error {
		err := fn(g.ctx)
		if err == nil {
			return nil
		}
		if ctxErr := g.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logCtx := g.logg.WithField(g.ctx, "collection", string(collection))
		g.logg.Error(logCtx, "analytics load failed, treating collection as empty", err)
		g.mu.Lock()
		g.degraded = append(g.degraded, string(collection))
		g.mu.Unlock()
		return nil
	})
}

func (g *loadGroup) wait() ([]string, error) {
	if err := g.group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load analytics data")
	}
	sort.Strings(g.degraded)
	return g.degraded, nil
}

func (s *service) Dashboard(ctx context.Context) (*types.Report, error) {
	if cached := s.cachedDashboard(ctx); cached != nil {
		return cached, nil
	}

	var ds Dataset
	g := newLoadGroup(ctx, s.logg)
	g.load(enums.CollectionOrders, func(ctx context.Context) (err error) {
		ds.Orders, err = s.orders.ListAll(ctx)
		return err
	})
	g.load(enums.CollectionMenuItems, func(ctx context.Context) (err error) {
		ds.MenuItems, err = s.menu.ListWithOrderItems(ctx)
		return err
	})
	g.load(enums.CollectionInventory, func(ctx context.Context) (err error) {
		ds.Inventory, err = s.inventory.List(ctx)
		return err
	})
	g.load(enums.CollectionUserStats, func(ctx context.Context) (err error) {
		ds.Stats, err = s.stats.List(ctx)
		return err
	})
	degraded, err := g.wait()
	if err != nil {
		return nil, err
	}

	report := Aggregate(s.now(), s.loc, ds, s.lowFactor)
	report.Degraded = degraded
	if len(degraded) == 0 {
		s.storeDashboard(ctx, report)
	}
	return &report, nil
}

func (s *service) Student(ctx context.Context, userID uuid.UUID) (*types.StudentReport, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	stats := models.UserStats{UserID: userID, TotalSpent: decimal.Zero}
	var orders []models.Order
	g := newLoadGroup(ctx, s.logg)
	g.load(enums.CollectionUserStats, func(ctx context.Context) error {
		row, err := s.stats.GetOrDefault(ctx, userID)
		if err != nil {
			return err
		}
		stats = *row
		return nil
	})
	g.load(enums.CollectionOrders, func(ctx context.Context) (err error) {
		orders, err = s.orders.ListAllForUser(ctx, userID)
		return err
	})
	degraded, err := g.wait()
	if err != nil {
		return nil, err
	}

	report := StudentView(s.loc, stats, orders)
	report.Degraded = degraded
	return &report, nil
}

func (s *service) Overview(ctx context.Context) (*types.Overview, error) {
	var (
		orders []models.Order
		stock  []models.InventoryItem
	)
	g := newLoadGroup(ctx, s.logg)
	g.load(enums.CollectionOrders, func(ctx context.Context) (err error) {
		orders, err = s.orders.ListAll(ctx)
		return err
	})
	g.load(enums.CollectionInventory, func(ctx context.Context) (err error) {
		stock, err = s.inventory.List(ctx)
		return err
	})
	degraded, err := g.wait()
	if err != nil {
		return nil, err
	}

	overview := BuildOverview(s.now(), s.loc, orders, stock)
	overview.Degraded = degraded
	return &overview, nil
}

func (s *service) cachedDashboard(ctx context.Context) *types.Report {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey(dashboardCacheKey))
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache read failed")
		}
		return nil
	}
	var report types.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache entry unreadable")
		return nil
	}
	return &report
}

func (s *service) storeDashboard(ctx context.Context, report types.Report) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logg.Error(ctx, "encode analytics report", err)
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey(dashboardCacheKey), payload, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache write failed")
	}
}
