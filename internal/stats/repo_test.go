package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/internal/testdb"
)

func TestApplyOrderCreatesAndBumps(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db, time.UTC)
	ctx := context.Background()
	userID := uuid.New()

	empty, err := repo.GetOrDefault(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.True(t, empty.TotalSpent.IsZero())

	day := time.Date(2026, 10, 5, 9, 30, 0, 0, time.UTC)
	row, err := repo.ApplyOrder(ctx, userID, decimal.RequireFromString("15.00"), day)
	require.NoError(t, err)
	assert.Equal(t, 1, row.TotalOrders)
	assert.True(t, row.TotalSpent.Equal(decimal.NewFromInt(15)), row.TotalSpent.String())
	assert.Equal(t, 15, row.LoyaltyPoints)
	assert.Equal(t, 1, row.StreakDays)
	require.NotNil(t, row.LastOrderDate)
	assert.Equal(t, "2026-10-05", row.LastOrderDate.UTC().Format("2006-01-02"))

	row, err = repo.ApplyOrder(ctx, userID, decimal.RequireFromString("7.99"), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, row.TotalOrders)
	assert.True(t, row.TotalSpent.Equal(decimal.RequireFromString("22.99")), row.TotalSpent.String())
	assert.Equal(t, 22, row.LoyaltyPoints)
	assert.Equal(t, 2, row.StreakDays)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPointsFor(t *testing.T) {
	assert.Equal(t, int64(15), PointsFor(decimal.RequireFromString("15.99")))
	assert.Equal(t, int64(0), PointsFor(decimal.RequireFromString("0.99")))
	assert.Equal(t, int64(0), PointsFor(decimal.RequireFromString("-3")))
}

func TestNextStreak(t *testing.T) {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	yesterday := day.AddDate(0, 0, -1)
	lastWeek := day.AddDate(0, 0, -7)

	assert.Equal(t, 1, NextStreak(0, nil, day))
	assert.Equal(t, 4, NextStreak(3, &yesterday, day))
	assert.Equal(t, 3, NextStreak(3, &day, day))
	assert.Equal(t, 1, NextStreak(0, &day, day))
	assert.Equal(t, 1, NextStreak(9, &lastWeek, day))
}

func TestApplyOrderUsesCanteenCalendar(t *testing.T) {
	campus := time.FixedZone("campus", -5*60*60)
	repo := NewRepository(testdb.Open(t), campus)
	ctx := context.Background()
	userID := uuid.New()

	lateNight := time.Date(2026, 10, 1, 23, 30, 0, 0, campus)
	_, err := repo.ApplyOrder(ctx, userID, decimal.NewFromInt(4), lateNight)
	require.NoError(t, err)

	row, err := repo.ApplyOrder(ctx, userID, decimal.NewFromInt(4), lateNight.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, row.StreakDays, "23:30 and 00:30 local are consecutive days")
	require.NotNil(t, row.LastOrderDate)
	assert.Equal(t, "2026-10-02", row.LastOrderDate.UTC().Format("2006-01-02"))
}

func TestDateOf(t *testing.T) {
	campus := time.FixedZone("campus", 9*60*60)
	at := time.Date(2026, 10, 5, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), DateOf(at, nil))
	assert.Equal(t, time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC), DateOf(at, campus))
}
