package analytics

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/redis"
)

type fakeOrders struct {
	orders []models.Order
	err    error
	calls  int
}

func (f *fakeOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	f.calls++
	return f.orders, f.err
}

func (f *fakeOrders) ListAllForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, f.err
}

type fakeMenu struct {
	items []models.MenuItem
	err   error
}

func (f *fakeMenu) ListWithOrderItems(ctx context.Context) ([]models.MenuItem, error) {
	return f.items, f.err
}

type fakeInventory struct {
	items []models.InventoryItem
	err   error
}

func (f *fakeInventory) List(ctx context.Context) ([]models.InventoryItem, error) {
	return f.items, f.err
}

type fakeStats struct {
	rows []models.UserStats
	err  error
}

func (f *fakeStats) List(ctx context.Context) ([]models.UserStats, error) {
	return f.rows, f.err
}

func (f *fakeStats) GetOrDefault(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, row := range f.rows {
		if row.UserID == userID {
			r := row
			return &r, nil
		}
	}
	return &models.UserStats{UserID: userID, TotalSpent: dec("0")}, nil
}

type deps struct {
	orders    *fakeOrders
	menu      *fakeMenu
	inventory *fakeInventory
	stats     *fakeStats
}

func newDeps() deps {
	return deps{orders: &fakeOrders{}, menu: &fakeMenu{}, inventory: &fakeInventory{}, stats: &fakeStats{}}
}

func newTestService(t *testing.T, d deps, cache reportCache) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders:    d.orders,
		Menu:      d.menu,
		Inventory: d.inventory,
		Stats:     d.stats,
		Cache:     cache,
		CacheTTL:  time.Minute,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return now }
	return impl
}

func TestNewServiceRequiresLoaders(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestDashboardDegradesFailedCollections(t *testing.T) {
	d := newDeps()
	d.orders.orders = []models.Order{order(enums.OrderStatusCompleted, "5", now.Add(-time.Hour))}
	d.menu.err = errors.New("menu down")
	d.stats.err = errors.New("stats down")
	svc := newTestService(t, d, nil)

	report, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"menu_items", "user_stats"}, report.Degraded)
	assert.Equal(t, 1, report.TotalOrders)
	assert.Empty(t, report.ItemPopularity)
	assert.Equal(t, 0, report.Customers.ActiveUsers)
	assert.Len(t, report.PeakHours, 24)
}

func TestDashboardCancelledContextFails(t *testing.T) {
	d := newDeps()
	d.orders.err = context.Canceled
	svc := newTestService(t, d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Dashboard(ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency), "got %v", err)
}

func TestDashboardUsesRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	cache := redis.Wrap(raw)

	d := newDeps()
	d.orders.orders = []models.Order{order(enums.OrderStatusCompleted, "5", now.Add(-time.Hour))}
	svc := newTestService(t, d, cache)

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, d.orders.calls)
	assert.True(t, srv.Exists(cache.CacheKey(dashboardCacheKey)))

	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.orders.calls, "second read should be served from cache")
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.True(t, first.TotalRevenue.Equal(second.TotalRevenue))

	srv.FastForward(2 * time.Minute)
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.orders.calls)
}

func TestDegradedDashboardIsNotCached(t *testing.T) {
	srv := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	cache := redis.Wrap(raw)

	d := newDeps()
	d.inventory.err = errors.New("inventory down")
	svc := newTestService(t, d, cache)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.False(t, srv.Exists(cache.CacheKey(dashboardCacheKey)))
}

func TestStudentReport(t *testing.T) {
	userID := uuid.New()
	d := newDeps()
	mine := order(enums.OrderStatusCompleted, "12", time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	mine.UserID = userID
	d.orders.orders = []models.Order{mine, order(enums.OrderStatusCompleted, "40", now)}
	d.stats.rows = []models.UserStats{{UserID: userID, TotalOrders: 1, TotalSpent: dec("12"), LoyaltyPoints: 12, StreakDays: 1}}
	svc := newTestService(t, d, nil)

	report, err := svc.Student(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, report.Degraded)
	assert.Equal(t, "Wednesday", report.FavouriteDay)
	require.Len(t, report.MonthlySpending, 1)
	assert.True(t, report.MonthlySpending[0].Amount.Equal(dec("12")))
	assert.True(t, report.AverageOrderValue.Equal(dec("12")))
	assert.Equal(t, 88, report.Loyalty.PointsToNext)

	_, err = svc.Student(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStudentReportDefaultsWhenStatsFail(t *testing.T) {
	d := newDeps()
	d.stats.err = errors.New("boom")
	svc := newTestService(t, d, nil)

	report, err := svc.Student(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"user_stats"}, report.Degraded)
	assert.Equal(t, 0, report.Stats.TotalOrders)
	assert.Equal(t, "Bronze", report.Loyalty.Current.Name)
}

func TestOverview(t *testing.T) {
	d := newDeps()
	d.orders.orders = []models.Order{order(enums.OrderStatusPending, "2", now.Add(-time.Hour))}
	d.inventory.items = []models.InventoryItem{{ItemName: "Eggs", CurrentStock: dec("1"), MinimumStock: dec("6")}}
	svc := newTestService(t, d, nil)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TodayOrders)
	assert.Equal(t, 1, overview.PendingOrders)
	require.Len(t, overview.LowStock, 1)
	assert.Equal(t, "Eggs", overview.LowStock[0].ItemName)
}
