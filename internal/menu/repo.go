package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
)

// Repository exposes menu and category persistence.
type Repository interface {
	ListAvailable(ctx context.Context, categoryID *uuid.UUID) ([]models.MenuItem, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	ListWithOrderItems(ctx context.Context) ([]models.MenuItem, error)
	WithTx(tx *gorm.DB) Repository
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

// ListAvailable returns orderable items by name, optionally within one category.
func (r *repositoryImpl) ListAvailable(ctx context.Context, categoryID *uuid.UUID) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Preload("Category").Where("is_available = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var rows []models.MenuItem
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.MenuItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Update("is_available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWithOrderItems loads every menu item with all of its order lines, for analytics.
func (r *repositoryImpl) ListWithOrderItems(ctx context.Context) ([]models.MenuItem, error) {
	var rows []models.MenuItem
	err := r.db.WithContext(ctx).Preload("OrderItems").Order("name ASC").Find(&rows).Error
	return rows, err
}
