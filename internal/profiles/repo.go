package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a profile. The id is the identity provider's subject and must be set.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "profile already exists")
		}
		return err
	}
	return nil
}

// FindByID loads a profile by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListIDsByRole returns the ids of every profile holding role.
func (r *Repository) ListIDsByRole(ctx context.Context, role enums.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("role = ?", role).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// ListAdminIDs returns the ids of every admin profile.
func (r *Repository) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.ListIDsByRole(ctx, enums.RoleAdmin)
}

// CountByRole counts profiles per role.
func (r *Repository) CountByRole(ctx context.Context, role enums.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// ListByRole loads every profile holding role.
func (r *Repository) ListByRole(ctx context.Context, role enums.Role) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at ASC").Find(&rows).Error
	return rows, err
}
