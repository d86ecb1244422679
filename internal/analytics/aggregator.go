package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/internal/analytics/types"
	"github.com/angelmondragon/canteen-backend/internal/inventory"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

const (
	revenueWindow   = 30 * 24 * time.Hour
	growthWindow    = 7 * 24 * time.Hour
	topItemsLimit   = 10
	topCustomersCap = 5
)

// Dataset is everything the dashboard is computed from. MenuItems carry their
// order lines in OrderItems.
type Dataset struct {
	Orders    []models.Order
	MenuItems []models.MenuItem
	Inventory []models.InventoryItem
	Stats     []models.UserStats
}

// Aggregate builds the admin dashboard. It does no I/O and the result depends
// only on its arguments.
func Aggregate(now time.Time, loc *time.Location, ds Dataset, lowFactor decimal.Decimal) types.Report {
	completed, revenue := completedRevenue(ds.Orders)
	return types.Report{
		GeneratedAt:        now,
		TotalOrders:        len(ds.Orders),
		CompletedOrders:    completed,
		TotalRevenue:       revenue,
		OrderGrowth:        OrderGrowth(now, ds.Orders),
		DailyRevenue:       DailyRevenue(now, loc, ds.Orders),
		ItemPopularity:     ItemPopularity(ds.MenuItems),
		StatusDistribution: StatusDistribution(ds.Orders),
		PeakHours:          PeakHours(loc, ds.Orders),
		Customers:          Customers(ds.Orders, ds.Stats),
		Inventory:          inventory.Summarize(ds.Inventory, lowFactor),
	}
}

// DailyRevenue sums completed orders from the trailing 30 days per calendar
// date, oldest date first.
func DailyRevenue(now time.Time, loc *time.Location, orders []models.Order) []types.RevenuePoint {
	since := now.Add(-revenueWindow)
	byDay := map[string]decimal.Decimal{}
	for _, o := range orders {
		if o.Status != enums.OrderStatusCompleted || o.CreatedAt.Before(since) {
			continue
		}
		key := DayKey(o.CreatedAt, loc)
		byDay[key] = byDay[key].Add(o.TotalAmount)
	}

	out := make([]types.RevenuePoint, 0, len(byDay))
	for day, amount := range byDay {
		out = append(out, types.RevenuePoint{Date: day, Revenue: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// OrderGrowth is the percent change in order count between the last seven
// days and the seven before. It is 0 when the earlier week had no orders.
func OrderGrowth(now time.Time, orders []models.Order) float64 {
	currentStart := now.Add(-growthWindow)
	previousStart := currentStart.Add(-growthWindow)

	var current, previous int
	for _, o := range orders {
		switch {
		case !o.CreatedAt.Before(currentStart):
			current++
		case !o.CreatedAt.Before(previousStart):
			previous++
		}
	}
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// ItemPopularity ranks menu items by quantity sold. Ties keep menu order, so
// items never ordered land after every item that was.
func ItemPopularity(items []models.MenuItem) []types.ItemPopularity {
	out := make([]types.ItemPopularity, 0, len(items))
	for _, item := range items {
		row := types.ItemPopularity{MenuItemID: item.ID, Name: item.Name, Revenue: decimal.Zero}
		for _, line := range item.OrderItems {
			row.Orders += line.Quantity
			row.Revenue = row.Revenue.Add(line.TotalPrice)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Orders > out[j].Orders })
	if len(out) > topItemsLimit {
		out = out[:topItemsLimit]
	}
	return out
}

// StatusDistribution counts orders per status in lifecycle order. Statuses
// with no orders are omitted. Values outside the lifecycle are still counted
// under their raw label, after the known ones, sorted by label.
func StatusDistribution(orders []models.Order) []types.StatusCount {
	counts := map[enums.OrderStatus]int{}
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]types.StatusCount, 0, len(counts))
	for _, status := range enums.OrderStatuses() {
		if n := counts[status]; n > 0 {
			out = append(out, types.StatusCount{Status: Capitalize(string(status)), Count: n})
		}
		delete(counts, status)
	}
	unknown := make([]enums.OrderStatus, 0, len(counts))
	for status := range counts {
		unknown = append(unknown, status)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, status := range unknown {
		out = append(out, types.StatusCount{Status: Capitalize(string(status)), Count: counts[status]})
	}
	return out
}

// PeakHours buckets orders by creation hour. All 24 hours are present.
func PeakHours(loc *time.Location, orders []models.Order) []types.HourBucket {
	var counts [24]int
	for _, o := range orders {
		counts[HourOf(o.CreatedAt, loc)]++
	}
	out := make([]types.HourBucket, 24)
	for hour := range out {
		out[hour] = types.HourBucket{Hour: fmt.Sprintf("%d:00", hour), Orders: counts[hour]}
	}
	return out
}

// Customers derives the customer section from stats rows and completed orders.
func Customers(orders []models.Order, stats []models.UserStats) types.CustomerMetrics {
	completed, revenue := completedRevenue(orders)
	out := types.CustomerMetrics{
		AverageOrderValue:     divide(revenue, completed),
		AverageSpendPerActive: decimal.Zero,
		TopCustomers:          []types.CustomerRank{},
	}

	spent := decimal.Zero
	for _, s := range stats {
		if s.TotalOrders > 0 {
			out.ActiveUsers++
		}
		if s.TotalOrders > 1 {
			out.RepeatCustomers++
		}
		if s.LoyaltyPoints > 0 {
			out.LoyaltyMembers++
		}
		if s.StreakDays > out.BestStreak {
			out.BestStreak = s.StreakDays
		}
		spent = spent.Add(s.TotalSpent)
	}
	out.AverageSpendPerActive = divide(spent, out.ActiveUsers)

	ranked := append([]models.UserStats(nil), stats...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalSpent.GreaterThan(ranked[j].TotalSpent) })
	if len(ranked) > topCustomersCap {
		ranked = ranked[:topCustomersCap]
	}
	for _, s := range ranked {
		out.TopCustomers = append(out.TopCustomers, types.CustomerRank{
			UserID:        s.UserID,
			TotalSpent:    s.TotalSpent,
			TotalOrders:   s.TotalOrders,
			LoyaltyPoints: s.LoyaltyPoints,
		})
	}
	return out
}

// Capitalize upper-cases the first letter of a status label.
func Capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func completedRevenue(orders []models.Order) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == enums.OrderStatusCompleted {
			count++
			total = total.Add(o.TotalAmount)
		}
	}
	return count, total
}

// divide returns amount/n rounded to cents, or zero when n is zero.
func divide(amount decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return amount.DivRound(decimal.NewFromInt(int64(n)), 2)
}
