package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/canteen-backend/pkg/db/types"
)

// UserStats holds a student's running totals. Counters only grow.
type UserStats struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalOrders   int               `gorm:"column:total_orders;not null;default:0" json:"total_orders"`
	TotalSpent    decimal.Decimal   `gorm:"column:total_spent;type:numeric(10,2);not null;default:0" json:"total_spent"`
	LoyaltyPoints int               `gorm:"column:loyalty_points;not null;default:0" json:"loyalty_points"`
	FavoriteItems dbtypes.UUIDArray `gorm:"column:favorite_items;type:uuid[]" json:"favorite_items"`
	StreakDays    int               `gorm:"column:streak_days;not null;default:0" json:"streak_days"`
	LastOrderDate *time.Time        `gorm:"column:last_order_date;type:date" json:"last_order_date,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }
