package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

type changeEmitter interface {
	Emit(ctx context.Context, collection enums.Collection, kind enums.ChangeKind, key uuid.UUID, owner *uuid.UUID, row any)
}

// Service serves the student menu and the admin availability toggle.
type Service interface {
	ListMenu(ctx context.Context, categoryID *uuid.UUID) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.MenuItem, error)
}

type service struct {
	repo    Repository
	emitter changeEmitter
}

func NewService(repo Repository, emitter changeEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo, emitter: emitter}, nil
}

func (s *service) ListMenu(ctx context.Context, categoryID *uuid.UUID) ([]models.MenuItem, error) {
	rows, err := s.repo.ListAvailable(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}
	return rows, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.MenuItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload menu item")
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, enums.CollectionMenuItems, enums.ChangeUpdate, item.ID, nil, item)
	}
	return item, nil
}
