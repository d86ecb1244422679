package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
)

// Repository exposes inventory persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal, restockedAt *time.Time) error
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).Order("item_name ASC").Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStock writes current_stock, and last_restocked when restockedAt is set.
func (r *repositoryImpl) UpdateStock(ctx context.Context, id uuid.UUID, stock decimal.Decimal, restockedAt *time.Time) error {
	updates := map[string]any{"current_stock": stock}
	if restockedAt != nil {
		updates["last_restocked"] = *restockedAt
	}
	result := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListExpiringBefore returns items with an expiry date earlier than cutoff, soonest first.
func (r *repositoryImpl) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ?", cutoff).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}
