package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/internal/analytics/types"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type achievementRule struct {
	name        string
	description string
	unlocked    func(models.UserStats) bool
}

var achievementRules = []achievementRule{
	{"First Order", "Placed your first order", ordersAtLeast(1)},
	{"Regular Customer", "Completed 5 orders", ordersAtLeast(5)},
	{"Frequent Diner", "Completed 10 orders", ordersAtLeast(10)},
	{"Canteen Champion", "Completed 25 orders", ordersAtLeast(25)},
	{"On Fire", "3-day ordering streak", streakAtLeast(3)},
	{"Week Warrior", "7-day ordering streak", streakAtLeast(7)},
	{"Big Spender", "Spent over $50", spentAtLeast(50)},
	{"VIP Customer", "Spent over $100", spentAtLeast(100)},
}

func ordersAtLeast(n int) func(models.UserStats) bool {
	return func(s models.UserStats) bool { return s.TotalOrders >= n }
}

func streakAtLeast(n int) func(models.UserStats) bool {
	return func(s models.UserStats) bool { return s.StreakDays >= n }
}

func spentAtLeast(n int64) func(models.UserStats) bool {
	threshold := decimal.NewFromInt(n)
	return func(s models.UserStats) bool { return s.TotalSpent.GreaterThanOrEqual(threshold) }
}

// Achievements evaluates the fixed achievement list against a stats row.
func Achievements(stats models.UserStats) []types.Achievement {
	out := make([]types.Achievement, 0, len(achievementRules))
	for _, rule := range achievementRules {
		out = append(out, types.Achievement{
			Name:        rule.name,
			Description: rule.description,
			Unlocked:    rule.unlocked(stats),
		})
	}
	return out
}

// MonthlySpending sums completed orders per month, oldest month first.
func MonthlySpending(loc *time.Location, orders []models.Order) []types.MonthlySpend {
	type bucket struct {
		start  time.Time
		amount decimal.Decimal
	}
	months := map[string]*bucket{}
	for _, o := range orders {
		if o.Status != enums.OrderStatusCompleted {
			continue
		}
		key := MonthKey(o.CreatedAt, loc)
		b, ok := months[key]
		if !ok {
			local := o.CreatedAt.In(location(loc))
			b = &bucket{start: time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location()), amount: decimal.Zero}
			months[key] = b
		}
		b.amount = b.amount.Add(o.TotalAmount)
	}

	out := make([]types.MonthlySpend, 0, len(months))
	for key, b := range months {
		out = append(out, types.MonthlySpend{Month: key, Amount: b.amount})
	}
	sort.Slice(out, func(i, j int) bool { return months[out[i].Month].start.Before(months[out[j].Month].start) })
	return out
}

// WeekdayHistogram counts orders per weekday, Monday through Sunday.
func WeekdayHistogram(loc *time.Location, orders []models.Order) []types.WeekdayCount {
	counts := map[time.Weekday]int{}
	for _, o := range orders {
		counts[o.CreatedAt.In(location(loc)).Weekday()]++
	}
	out := make([]types.WeekdayCount, 0, len(weekdays))
	for _, day := range weekdays {
		out = append(out, types.WeekdayCount{Day: day.String(), Orders: counts[day]})
	}
	return out
}

// FavouriteDay is the busiest weekday, earliest in the week on ties, or ""
// with no orders.
func FavouriteDay(histogram []types.WeekdayCount) string {
	best := types.WeekdayCount{}
	for _, day := range histogram {
		if day.Orders > best.Orders {
			best = day
		}
	}
	return best.Day
}

// StudentView assembles one student's stats page.
func StudentView(loc *time.Location, stats models.UserStats, orders []models.Order) types.StudentReport {
	histogram := WeekdayHistogram(loc, orders)
	return types.StudentReport{
		Stats:             stats,
		Loyalty:           LoyaltyFor(stats.LoyaltyPoints),
		Achievements:      Achievements(stats),
		MonthlySpending:   MonthlySpending(loc, orders),
		Weekdays:          histogram,
		FavouriteDay:      FavouriteDay(histogram),
		AverageOrderValue: divide(stats.TotalSpent, stats.TotalOrders),
	}
}
