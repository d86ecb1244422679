package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	ListAllForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListBoard(ctx context.Context, closedSince time.Time) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// TransitionStatus moves an order from one status to another only if it
	// still holds from. It reports false when another writer got there first.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, stamps map[string]any) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
