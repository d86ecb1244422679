package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
)

// Repository persists per-student running totals. Order days are taken in the
// canteen's location so streaks agree with the analytics calendar.
type Repository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewRepository defaults a nil location to UTC.
func NewRepository(db *gorm.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, loc: r.loc}
}

// GetOrDefault returns the stored row, or an unsaved zero row when the student
// has never ordered.
func (r *Repository) GetOrDefault(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	var row models.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStats{UserID: userID, TotalSpent: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List loads every stats row.
func (r *Repository) List(ctx context.Context) ([]models.UserStats, error) {
	var rows []models.UserStats
	err := r.db.WithContext(ctx).Order("total_spent DESC").Find(&rows).Error
	return rows, err
}

// ApplyOrder records one placed order: the row is created with zero totals if
// missing, then bumped. orderedAt decides both last_order_date and the streak.
func (r *Repository) ApplyOrder(ctx context.Context, userID uuid.UUID, total decimal.Decimal, orderedAt time.Time) (*models.UserStats, error) {
	seed := models.UserStats{ID: uuid.New(), UserID: userID, TotalSpent: decimal.Zero}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&seed).Error; err != nil {
		return nil, err
	}

	var current models.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&current).Error; err != nil {
		return nil, err
	}

	day := DateOf(orderedAt, r.loc)
	if err := r.db.WithContext(ctx).
		Model(&models.UserStats{}).
		Where("id = ?", current.ID).
		Updates(map[string]any{
			"total_orders":    gorm.Expr("total_orders + ?", 1),
			"total_spent":     gorm.Expr("total_spent + ?", total),
			"loyalty_points":  gorm.Expr("loyalty_points + ?", PointsFor(total)),
			"last_order_date": day,
			"streak_days":     NextStreak(current.StreakDays, current.LastOrderDate, day),
			"updated_at":      time.Now().UTC(),
		}).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", current.ID).First(&current).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// PointsFor converts an order total into loyalty points: one per whole currency unit.
func PointsFor(total decimal.Decimal) int64 {
	if total.IsNegative() {
		return 0
	}
	return total.Floor().IntPart()
}

// DateOf returns the calendar date of t in loc, expressed as midnight UTC so it
// round-trips through a DATE column unchanged.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak extends the streak when the previous order was the day before,
// keeps it for a same-day order and restarts it at 1 otherwise. last and day
// are calendar dates as produced by DateOf.
func NextStreak(current int, last *time.Time, day time.Time) int {
	if last == nil {
		return 1
	}
	prev := DateOf(*last, time.UTC)
	switch {
	case prev.Equal(day):
		if current < 1 {
			return 1
		}
		return current
	case prev.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}
