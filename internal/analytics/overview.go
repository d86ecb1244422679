package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/internal/analytics/types"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// BuildOverview computes the admin landing page. Pending and preparing counts
// cover every order passed in; the remaining figures cover today in loc.
func BuildOverview(now time.Time, loc *time.Location, orders []models.Order, stock []models.InventoryItem) types.Overview {
	today := StartOfDay(now, loc)
	out := types.Overview{
		TodayRevenue:   decimal.Zero,
		LowStock:       []models.InventoryItem{},
		InventoryItems: len(stock),
	}
	for _, o := range orders {
		switch o.Status {
		case enums.OrderStatusPending:
			out.PendingOrders++
		case enums.OrderStatusPreparing:
			out.PreparingOrders++
		}
		if o.CreatedAt.Before(today) {
			continue
		}
		out.TodayOrders++
		if o.Status == enums.OrderStatusCompleted {
			out.CompletedToday++
			out.TodayRevenue = out.TodayRevenue.Add(o.TotalAmount)
		}
	}
	if out.TodayOrders > 0 {
		out.CompletionRate = float64(out.CompletedToday) / float64(out.TodayOrders) * 100
	}
	for _, item := range stock {
		if inventory.NeedsAlert(item.CurrentStock, item.MinimumStock) {
			out.LowStock = append(out.LowStock, item)
		}
	}
	return out
}
