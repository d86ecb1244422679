package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
)

// RevenuePoint is completed revenue for one calendar date (YYYY-MM-DD).
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ItemPopularity sums every order line for one menu item.
type ItemPopularity struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// HourBucket counts orders created within one hour of the day.
type HourBucket struct {
	Hour   string `json:"hour"`
	Orders int    `json:"orders"`
}

// CustomerRank is a top customer by lifetime spend.
type CustomerRank struct {
	UserID        uuid.UUID       `json:"user_id"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalOrders   int             `json:"total_orders"`
	LoyaltyPoints int             `json:"loyalty_points"`
}

type CustomerMetrics struct {
	ActiveUsers           int             `json:"active_users"`
	AverageOrderValue     decimal.Decimal `json:"average_order_value"`
	TopCustomers          []CustomerRank  `json:"top_customers"`
	RepeatCustomers       int             `json:"repeat_customers"`
	LoyaltyMembers        int             `json:"loyalty_members"`
	AverageSpendPerActive decimal.Decimal `json:"average_spend_per_active"`
	BestStreak            int             `json:"best_streak"`
}

// Report is the admin analytics dashboard.
type Report struct {
	GeneratedAt        time.Time         `json:"generated_at"`
	TotalOrders        int               `json:"total_orders"`
	CompletedOrders    int               `json:"completed_orders"`
	TotalRevenue       decimal.Decimal   `json:"total_revenue"`
	OrderGrowth        float64           `json:"order_growth"`
	DailyRevenue       []RevenuePoint    `json:"daily_revenue"`
	ItemPopularity     []ItemPopularity  `json:"item_popularity"`
	StatusDistribution []StatusCount     `json:"status_distribution"`
	PeakHours          []HourBucket      `json:"peak_hours"`
	Customers          CustomerMetrics   `json:"customers"`
	Inventory          inventory.Summary `json:"inventory"`
	// Degraded names the collections that failed to load and were treated as empty.
	Degraded []string `json:"degraded,omitempty"`
}

// Tier is one rung of the loyalty ladder. Max is nil for the open-ended top tier.
type Tier struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  *int   `json:"max,omitempty"`
}

// Loyalty places a points balance on the ladder.
type Loyalty struct {
	Points       int     `json:"points"`
	Current      Tier    `json:"current"`
	Next         *Tier   `json:"next,omitempty"`
	Progress     float64 `json:"progress"`
	PointsToNext int     `json:"points_to_next"`
}

type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type MonthlySpend struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type WeekdayCount struct {
	Day    string `json:"day"`
	Orders int    `json:"orders"`
}

// StudentReport is the per-student stats page.
type StudentReport struct {
	Stats             models.UserStats `json:"stats"`
	Loyalty           Loyalty          `json:"loyalty"`
	Achievements      []Achievement    `json:"achievements"`
	MonthlySpending   []MonthlySpend   `json:"monthly_spending"`
	Weekdays          []WeekdayCount   `json:"weekdays"`
	FavouriteDay      string           `json:"favourite_day,omitempty"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
	Degraded          []string         `json:"degraded,omitempty"`
}

// Overview is the admin landing page.
type Overview struct {
	TodayOrders     int                    `json:"today_orders"`
	PendingOrders   int                    `json:"pending_orders"`
	PreparingOrders int                    `json:"preparing_orders"`
	CompletedToday  int                    `json:"completed_today"`
	TodayRevenue    decimal.Decimal        `json:"today_revenue"`
	CompletionRate  float64                `json:"completion_rate"`
	LowStock        []models.InventoryItem `json:"low_stock"`
	InventoryItems  int                    `json:"inventory_items"`
	Degraded        []string               `json:"degraded,omitempty"`
}
