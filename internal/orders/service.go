package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/internal/menu"
	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/internal/stats"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
	"github.com/angelmondragon/canteen-backend/pkg/metrics"
	"github.com/angelmondragon/canteen-backend/pkg/pagination"
	"github.com/angelmondragon/canteen-backend/pkg/types"
)

// Service defines order placement, lookup and the kitchen workflow.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	Advance(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*types.Page[models.Order], error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	Board(ctx context.Context) (*Board, error)
}

// ServiceParams wires order dependencies. Mirror is optional; without it the
// board is read from the database.
type ServiceParams struct {
	Repo          Repository
	Menu          menu.Repository
	Stats         *stats.Repository
	Notifications notifications.Repository
	Tx            txRunner
	Emitter       notifications.ChangeEmitter
	Mirror        *BoardMirror
	Logger        *logger.Logger
	Metrics       *metrics.CanteenMetrics
	BoardWindow   time.Duration
}

type service struct {
	repo        Repository
	menu        menu.Repository
	stats       *stats.Repository
	notes       notifications.Repository
	tx          txRunner
	emitter     notifications.ChangeEmitter
	mirror      *BoardMirror
	logg        *logger.Logger
	metrics     *metrics.CanteenMetrics
	boardWindow time.Duration
	now         func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if params.Stats == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	window := params.BoardWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &service{
		repo:        params.Repo,
		menu:        params.Menu,
		stats:       params.Stats,
		notes:       params.Notifications,
		tx:          params.Tx,
		emitter:     params.Emitter,
		mirror:      params.Mirror,
		logg:        params.Logger,
		metrics:     params.Metrics,
		boardWindow: window,
		now:         time.Now,
	}, nil
}

// PlaceOrder turns a cart into a pending cash order and bumps the student's
// stats in the same transaction.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	ids := make([]uuid.UUID, 0, len(input.Items))
	for i, line := range input.Items {
		if line.MenuItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required").WithDetails(map[string]any{"line": i})
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").WithDetails(map[string]any{"line": i})
		}
		ids = append(ids, line.MenuItemID)
	}

	var (
		order *models.Order
		stats *models.UserStats
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items, err := s.menu.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
		}
		byID := make(map[uuid.UUID]models.MenuItem, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}

		now := s.now().UTC()
		built, err := buildOrder(userID, input, byID, now)
		if err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, built); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.CreateOrderItems(ctx, built.Items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		updated, err := s.stats.WithTx(tx).ApplyOrder(ctx, userID, built.TotalAmount, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user stats")
		}
		order, stats = built, updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrdersPlaced()
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"total":    order.TotalAmount.StringFixed(2),
		"lines":    len(order.Items),
	})
	s.logg.Info(logCtx, "order placed")

	if s.emitter != nil {
		owner := order.UserID
		s.emitter.Emit(ctx, enums.CollectionOrders, enums.ChangeInsert, order.ID, &owner, order)
		s.emitter.Emit(ctx, enums.CollectionUserStats, enums.ChangeUpdate, stats.ID, &owner, stats)
	}
	return order, nil
}

func buildOrder(userID uuid.UUID, input PlaceOrderInput, catalog map[uuid.UUID]models.MenuItem, now time.Time) (*models.Order, error) {
	method := string(enums.PaymentMethodCash)
	order := &models.Order{
		ID:                  uuid.New(),
		UserID:              userID,
		Status:              enums.OrderStatusPending,
		PaymentStatus:       enums.PaymentStatusPending,
		PaymentMethod:       &method,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	total := decimal.Zero
	var missing, unavailable []string
	for _, line := range input.Items {
		item, ok := catalog[line.MenuItemID]
		if !ok {
			missing = append(missing, line.MenuItemID.String())
			continue
		}
		if !item.IsAvailable {
			unavailable = append(unavailable, item.Name)
			continue
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		menuItem := item
		order.Items = append(order.Items, models.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			MenuItemID:      item.ID,
			Quantity:        line.Quantity,
			UnitPrice:       item.Price,
			TotalPrice:      lineTotal,
			SpecialRequests: line.SpecialRequests,
			MenuItem:        &menuItem,
			CreatedAt:       now,
		})
		total = total.Add(lineTotal)
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found").WithDetails(map[string]any{"menu_item_ids": missing})
	}
	if len(unavailable) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "menu item unavailable").WithDetails(map[string]any{"items": unavailable})
	}
	order.TotalAmount = total
	return order, nil
}

// Advance moves an order one stage forward. The write only lands if the order
// still holds the status it was read with.
func (s *service) Advance(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var (
		order *models.Order
		note  models.Notification
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		next, ok := NextStatus(current.Status)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot advance").
				WithDetails(map[string]any{"status": current.Status})
		}

		now := s.now().UTC()
		stamps := transitionStamps(next, now)
		moved, err := repo.TransitionStatus(ctx, current.ID, current.Status, next, stamps)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").
				WithDetails(map[string]any{"expected": current.Status})
		}

		current.Status = next
		current.UpdatedAt = now
		switch next {
		case enums.OrderStatusReady:
			current.EstimatedReadyTime = &now
		case enums.OrderStatusCompleted:
			current.ActualReadyTime = &now
		}

		note = notifications.OrderUpdate(*current)
		if err := s.notes.WithTx(tx).Create(ctx, &note); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(order.Status))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"status":   string(order.Status),
	}), "order advanced")

	if s.emitter != nil {
		owner := order.UserID
		s.emitter.Emit(ctx, enums.CollectionOrders, enums.ChangeUpdate, order.ID, &owner, order)
	}
	notifications.EmitCreated(ctx, s.emitter, []models.Notification{note})
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*types.Page[models.Order], error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListByUser(ctx, userID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	rows, next := pagination.Page(rows, params.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &types.Page[models.Order]{Items: rows, Cursor: next}, nil
}

// Get returns one order to its owner or to an order manager.
func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != actor.UserID && !actor.Role.Can(enums.CapabilityManageOrders) {
		// Other students' orders are reported as missing.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) Board(ctx context.Context) (*Board, error) {
	if s.mirror != nil && s.mirror.Ready() {
		board := BuildBoard(s.mirror.Orders())
		return &board, nil
	}
	rows, err := s.repo.ListBoard(ctx, s.now().Add(-s.boardWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load board")
	}
	board := BuildBoard(rows)
	return &board, nil
}
