package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/internal/testdb"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/pagination"
)

func TestRepositoryListPagesAndScopesByUser(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: owner, Title: "t", Message: "m", Type: enums.NotificationTypeGeneral, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, &n))
	}
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: uuid.New(), Title: "t", Message: "m", Type: enums.NotificationTypeGeneral}))

	svc := newServiceWithRepo(repo, nil)
	page, err := svc.List(ctx, ListParams{UserID: owner, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[1].CreatedAt))
	require.NotEmpty(t, page.Cursor)

	rest, err := svc.List(ctx, ListParams{UserID: owner, Limit: 2, Cursor: page.Cursor})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.Cursor)
	assert.True(t, rest.Items[0].CreatedAt.Equal(base))
}

func TestRepositoryMarkReadScopesByOwner(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	n := models.Notification{UserID: owner, Title: "t", Message: "m", Type: enums.NotificationTypeGeneral}
	require.NoError(t, repo.Create(ctx, &n))

	_, err := repo.MarkRead(ctx, uuid.New(), n.ID)
	require.Error(t, err)

	row, err := repo.MarkRead(ctx, owner, n.ID)
	require.NoError(t, err)
	assert.True(t, row.IsRead)

	count, err := repo.CountUnread(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryMarkAllReadAndCleanup(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	old := time.Now().UTC().AddDate(0, 0, -40)
	rows := []models.Notification{
		{UserID: owner, Title: "a", Message: "m", Type: enums.NotificationTypeGeneral, CreatedAt: old},
		{UserID: owner, Title: "b", Message: "m", Type: enums.NotificationTypeGeneral},
	}
	require.NoError(t, repo.CreateMany(ctx, rows))

	changed, err := repo.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, changed, 2)

	deleted, err := repo.DeleteReadBefore(ctx, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.List(ctx, listNotificationsParams{UserID: owner, Limit: pagination.LimitWithBuffer(10)})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Title)
}

func TestMessages(t *testing.T) {
	id := uuid.MustParse("1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed")
	n := OrderUpdate(models.Order{ID: id, UserID: uuid.New(), Status: enums.OrderStatusReady})
	assert.Equal(t, "Your order #1b9d6bcd is now ready", n.Message)
	assert.Equal(t, enums.NotificationTypeOrderUpdate, n.Type)

	admins := []uuid.UUID{uuid.New(), uuid.New()}
	item := models.InventoryItem{ItemName: "Rice", Unit: "kg", CurrentStock: decimal.NewFromInt(4)}
	alerts := LowStock(admins, item)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Rice is running low (4 kg remaining)", alerts[0].Message)
	assert.Equal(t, "Low Stock Alert", alerts[1].Title)

	assert.Equal(t, "Rice expires in 2 days", Expiring(admins, item, 2)[0].Message)
	assert.Equal(t, "Rice has expired", Expiring(admins, item, -1)[0].Message)
}
