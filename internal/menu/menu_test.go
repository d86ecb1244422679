package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/internal/testdb"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

type recordingEmitter struct {
	kinds []enums.ChangeKind
}

func (r *recordingEmitter) Emit(ctx context.Context, collection enums.Collection, kind enums.ChangeKind, key uuid.UUID, owner *uuid.UUID, row any) {
	r.kinds = append(r.kinds, kind)
}

func seedMenu(t *testing.T, db *gorm.DB) (models.Category, []models.MenuItem) {
	t.Helper()
	drinks := models.Category{ID: uuid.New(), Name: "Drinks", IsActive: true}
	hidden := models.Category{ID: uuid.New(), Name: "Archive", IsActive: false}
	require.NoError(t, db.Create(&drinks).Error)
	require.NoError(t, db.Create(&hidden).Error)

	items := []models.MenuItem{
		{ID: uuid.New(), Name: "Tea", Price: decimal.RequireFromString("1.50"), CategoryID: &drinks.ID, IsAvailable: true, PreparationTime: 2},
		{ID: uuid.New(), Name: "Coffee", Price: decimal.RequireFromString("2.00"), CategoryID: &drinks.ID, IsAvailable: true, PreparationTime: 3},
		{ID: uuid.New(), Name: "Burger", Price: decimal.RequireFromString("5.00"), IsAvailable: false, PreparationTime: 10},
	}
	require.NoError(t, db.Create(&items).Error)
	return drinks, items
}

func TestListMenuAvailableByName(t *testing.T) {
	db := testdb.Open(t)
	drinks, _ := seedMenu(t, db)
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)

	rows, err := svc.ListMenu(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Coffee", rows[0].Name)
	assert.Equal(t, "Tea", rows[1].Name)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Drinks", rows[0].Category.Name)

	other := uuid.New()
	rows, err = svc.ListMenu(context.Background(), &other)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = svc.ListMenu(context.Background(), &drinks.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Drinks", cats[0].Name)
}

func TestSetAvailability(t *testing.T) {
	db := testdb.Open(t)
	_, items := seedMenu(t, db)
	emitter := &recordingEmitter{}
	svc, err := NewService(NewRepository(db), emitter)
	require.NoError(t, err)

	burger := items[2]
	item, err := svc.SetAvailability(context.Background(), burger.ID, true)
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)
	assert.Equal(t, []enums.ChangeKind{enums.ChangeUpdate}, emitter.kinds)

	item, err = svc.SetAvailability(context.Background(), burger.ID, false)
	require.NoError(t, err)
	assert.False(t, item.IsAvailable)

	_, err = svc.SetAvailability(context.Background(), uuid.New(), true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
