package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// DefaultLowFactor is the multiple of minimum stock under which an item counts as low.
var DefaultLowFactor = decimal.RequireFromString("1.5")

// Classify grades stock against its minimum using DefaultLowFactor.
func Classify(current, minimum decimal.Decimal) enums.StockStatus {
	return ClassifyWithFactor(current, minimum, DefaultLowFactor)
}

// ClassifyWithFactor grades stock: critical at or below minimum, low at or below
// minimum x factor, good above that.
func ClassifyWithFactor(current, minimum, factor decimal.Decimal) enums.StockStatus {
	if current.LessThanOrEqual(minimum) {
		return enums.StockStatusCritical
	}
	if current.LessThanOrEqual(minimum.Mul(factor)) {
		return enums.StockStatusLow
	}
	return enums.StockStatusGood
}

// NeedsAlert reports whether a write leaving stock at next must alert admins.
func NeedsAlert(next, minimum decimal.Decimal) bool {
	return next.LessThanOrEqual(minimum)
}

// IsRestock reports whether a write is a restock rather than consumption.
func IsRestock(previous, next decimal.Decimal) bool {
	return next.GreaterThan(previous)
}

// ClampAdjust applies delta to current and keeps the result within [0, maximum].
func ClampAdjust(current, delta, maximum decimal.Decimal) decimal.Decimal {
	next := current.Add(delta)
	if next.IsNegative() {
		return decimal.Zero
	}
	if maximum.IsPositive() && next.GreaterThan(maximum) {
		return maximum
	}
	return next
}

// Summarize counts items per severity.
func Summarize(items []models.InventoryItem, factor decimal.Decimal) Summary {
	var out Summary
	for _, item := range items {
		out.add(ClassifyWithFactor(item.CurrentStock, item.MinimumStock, factor))
	}
	return out
}
