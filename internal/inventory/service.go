package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type adminLister interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Item is an inventory row with its stock severity.
type Item struct {
	models.InventoryItem
	Status enums.StockStatus `json:"status"`
}

// Summary counts items per severity.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Low      int `json:"low"`
	Good     int `json:"good"`
}

// ListResult is the admin inventory view.
type ListResult struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// UpdateResult reports a stock write and the alerts it raised.
type UpdateResult struct {
	Item         Item `json:"item"`
	Restocked    bool `json:"restocked"`
	AlertsRaised int  `json:"alerts_raised"`
}

// Service manages kitchen stock.
type Service interface {
	List(ctx context.Context) (*ListResult, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) (*UpdateResult, error)
	Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*UpdateResult, error)
	Classify(item models.InventoryItem) enums.StockStatus
}

// ServiceParams wires inventory dependencies.
type ServiceParams struct {
	Repo          Repository
	Notifications notifications.Repository
	Admins        adminLister
	Tx            txRunner
	Emitter       notifications.ChangeEmitter
	Logger        *logger.Logger
	Metrics       *metrics.CanteenMetrics
	LowFactor     decimal.Decimal
}

type service struct {
	repo      Repository
	notes     notifications.Repository
	admins    adminLister
	tx        txRunner
	emitter   notifications.ChangeEmitter
	logg      *logger.Logger
	metrics   *metrics.CanteenMetrics
	lowFactor decimal.Decimal
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin lister required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	factor := params.LowFactor
	if !factor.IsPositive() {
		factor = DefaultLowFactor
	}
	return &service{
		repo:      params.Repo,
		notes:     params.Notifications,
		admins:    params.Admins,
		tx:        params.Tx,
		emitter:   params.Emitter,
		logg:      params.Logger,
		metrics:   params.Metrics,
		lowFactor: factor,
		now:       time.Now,
	}, nil
}

func (s *service) Classify(item models.InventoryItem) enums.StockStatus {
	return ClassifyWithFactor(item.CurrentStock, item.MinimumStock, s.lowFactor)
}

func (s *service) List(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	out := &ListResult{Items: make([]Item, 0, len(rows))}
	for _, row := range rows {
		item := Item{InventoryItem: row, Status: s.Classify(row)}
		out.Items = append(out.Items, item)
		out.Summary.add(item.Status)
	}
	return out, nil
}

func (s *service) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal) (*UpdateResult, error) {
	if stock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return s.write(ctx, id, func(models.InventoryItem) decimal.Decimal { return stock })
}

// Adjust applies a relative change clamped to [0, maximum_stock].
func (s *service) Adjust(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*UpdateResult, error) {
	if delta.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}
	return s.write(ctx, id, func(item models.InventoryItem) decimal.Decimal {
		return ClampAdjust(item.CurrentStock, delta, item.MaximumStock)
	})
}

func (s *service) write(ctx context.Context, id uuid.UUID, next func(models.InventoryItem) decimal.Decimal) (*UpdateResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item id required")
	}

	adminIDs, err := s.admins.ListAdminIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admins")
	}

	var (
		updated models.InventoryItem
		alerts  []models.Notification
		result  UpdateResult
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		stock := next(*item)
		now := s.now().UTC()
		var restockedAt *time.Time
		if IsRestock(item.CurrentStock, stock) {
			restockedAt = &now
			result.Restocked = true
		}
		if err := repo.UpdateStock(ctx, id, stock, restockedAt); err != nil {
			return err
		}

		updated = *item
		updated.CurrentStock = stock
		if restockedAt != nil {
			updated.LastRestocked = restockedAt
		}
		updated.UpdatedAt = now

		if NeedsAlert(stock, item.MinimumStock) && len(adminIDs) > 0 {
			alerts = notifications.LowStock(adminIDs, updated)
			if err := s.notes.WithTx(tx).CreateMany(ctx, alerts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"inventory_id":  id.String(),
		"current_stock": updated.CurrentStock.String(),
	})
	if updated.MaximumStock.IsPositive() && updated.CurrentStock.GreaterThan(updated.MaximumStock) {
		s.logg.Warn(logCtx, "stock set above maximum")
	}
	if len(alerts) > 0 {
		s.metrics.IncLowStockAlert()
		s.logg.Info(s.logg.WithField(logCtx, "admins_notified", len(alerts)), "low stock alert raised")
	}

	if s.emitter != nil {
		s.emitter.Emit(ctx, enums.CollectionInventory, enums.ChangeUpdate, updated.ID, nil, updated)
	}
	notifications.EmitCreated(ctx, s.emitter, alerts)

	result.Item = Item{InventoryItem: updated, Status: s.Classify(updated)}
	result.AlertsRaised = len(alerts)
	return &result, nil
}

func (s *Summary) add(status enums.StockStatus) {
	s.Total++
	switch status {
	case enums.StockStatusCritical:
		s.Critical++
	case enums.StockStatusLow:
		s.Low++
	default:
		s.Good++
	}
}
