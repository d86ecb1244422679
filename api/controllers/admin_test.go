package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticstypes "github.com/angelmondragon/canteen-backend/internal/analytics/types"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/pkg/config"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

type stubInventory struct {
	set    decimal.Decimal
	delta  decimal.Decimal
	target uuid.UUID
}

func (s *stubInventory) List(ctx context.Context) (*inventory.ListResult, error) {
	return &inventory.ListResult{Summary: inventory.Summary{Total: 1, Critical: 1}}, nil
}

func (s *stubInventory) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) (*inventory.UpdateResult, error) {
	s.target, s.set = id, stock
	return &inventory.UpdateResult{AlertsRaised: 2}, nil
}

func (s *stubInventory) Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*inventory.UpdateResult, error) {
	s.target, s.delta = id, delta
	return &inventory.UpdateResult{}, nil
}

func (s *stubInventory) Classify(item models.InventoryItem) enums.StockStatus {
	return enums.StockStatusGood
}

type stubMenu struct {
	category  *uuid.UUID
	available *bool
}

func (s *stubMenu) ListMenu(ctx context.Context, categoryID *uuid.UUID) ([]models.MenuItem, error) {
	s.category = categoryID
	return []models.MenuItem{{ID: uuid.New(), Name: "Tea"}}, nil
}

func (s *stubMenu) ListCategories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: uuid.New(), Name: "Drinks"}}, nil
}

func (s *stubMenu) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.MenuItem, error) {
	s.available = &available
	return &models.MenuItem{ID: id, IsAvailable: available}, nil
}

type stubAnalytics struct{}

func (stubAnalytics) Dashboard(ctx context.Context) (*analyticstypes.Report, error) {
	return &analyticstypes.Report{TotalOrders: 4, Degraded: []string{"inventory"}}, nil
}

func (stubAnalytics) Student(ctx context.Context, userID uuid.UUID) (*analyticstypes.StudentReport, error) {
	return &analyticstypes.StudentReport{Stats: models.UserStats{UserID: userID, TotalOrders: 2}}, nil
}

func (stubAnalytics) Overview(ctx context.Context) (*analyticstypes.Overview, error) {
	return &analyticstypes.Overview{PendingOrders: 3}, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestSetStockDecodesDecimal(t *testing.T) {
	svc := &stubInventory{}
	itemID := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"current_stock":"12.50"}`))
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	SetStock(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, itemID, svc.target)
	assert.True(t, svc.set.Equal(decimal.RequireFromString("12.5")))
	var result inventory.UpdateResult
	decodeData(t, resp, &result)
	assert.Equal(t, 2, result.AlertsRaised)
}

func TestSetStockRequiresValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req = addRouteParam(req, "itemId", uuid.NewString())
	resp := httptest.NewRecorder()
	SetStock(&stubInventory{}, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdjustStockAcceptsNegativeDelta(t *testing.T) {
	svc := &stubInventory{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"delta":-1}`))
	req = addRouteParam(req, "itemId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdjustStock(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, svc.delta.Equal(decimal.NewFromInt(-1)))
}

func TestListInventory(t *testing.T) {
	resp := httptest.NewRecorder()
	ListInventory(&stubInventory{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var result inventory.ListResult
	decodeData(t, resp, &result)
	assert.Equal(t, 1, result.Summary.Critical)
}

func TestListMenuCategoryFilter(t *testing.T) {
	svc := &stubMenu{}
	categoryID := uuid.New()
	resp := httptest.NewRecorder()
	ListMenu(svc, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/menu?category="+categoryID.String(), nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.category)
	assert.Equal(t, categoryID, *svc.category)

	resp = httptest.NewRecorder()
	ListMenu(svc, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/menu?category=bad", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSetMenuAvailability(t *testing.T) {
	svc := &stubMenu{}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"is_available":false}`))
	req = addRouteParam(req, "menuItemId", uuid.NewString())
	resp := httptest.NewRecorder()
	SetMenuAvailability(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.available)
	assert.False(t, *svc.available)
}

func TestAnalyticsHandlers(t *testing.T) {
	resp := httptest.NewRecorder()
	AdminAnalytics(stubAnalytics{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var report analyticstypes.Report
	decodeData(t, resp, &report)
	assert.Equal(t, 4, report.TotalOrders)
	assert.Equal(t, []string{"inventory"}, report.Degraded)

	resp = httptest.NewRecorder()
	AdminOverview(stubAnalytics{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	userID := uuid.New()
	resp = httptest.NewRecorder()
	StudentStats(stubAnalytics{}, testLogger())(resp, asUser(httptest.NewRequest(http.MethodGet, "/", nil), userID))
	require.Equal(t, http.StatusOK, resp.Code)
	var student analyticstypes.StudentReport
	decodeData(t, resp, &student)
	assert.Equal(t, userID, student.Stats.UserID)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{}})(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Canteen-Env"))

	resp = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("down")}})(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "redis")
}
