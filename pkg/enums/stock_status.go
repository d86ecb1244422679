package enums

// StockStatus is the severity of an inventory item's stock level, ordered from worst to best.
type StockStatus string

const (
	StockStatusCritical StockStatus = "critical"
	StockStatusLow      StockStatus = "low"
	StockStatusGood     StockStatus = "good"
)

// Severity ranks statuses so callers can sort the most urgent first.
func (s StockStatus) Severity() int {
	switch s {
	case StockStatusCritical:
		return 0
	case StockStatusLow:
		return 1
	default:
		return 2
	}
}
