package inventory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestClassify(t *testing.T) {
	cases := []struct {
		current, minimum string
		want             enums.StockStatus
	}{
		{"0", "5", enums.StockStatusCritical},
		{"5", "5", enums.StockStatusCritical},
		{"5.01", "5", enums.StockStatusLow},
		{"7.5", "5", enums.StockStatusLow},
		{"7.51", "5", enums.StockStatusGood},
		{"100", "5", enums.StockStatusGood},
		{"0", "0", enums.StockStatusCritical},
		{"1", "0", enums.StockStatusGood},
	}
	for _, tc := range cases {
		if got := Classify(d(tc.current), d(tc.minimum)); got != tc.want {
			t.Fatalf("Classify(%s, %s) = %s, want %s", tc.current, tc.minimum, got, tc.want)
		}
	}
}

func TestClassifyWithFactor(t *testing.T) {
	if got := ClassifyWithFactor(d("9"), d("5"), d("2")); got != enums.StockStatusLow {
		t.Fatalf("expected low with factor 2, got %s", got)
	}
}

func TestClampAdjust(t *testing.T) {
	if got := ClampAdjust(d("2"), d("-5"), d("10")); !got.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
	if got := ClampAdjust(d("8"), d("5"), d("10")); !got.Equal(d("10")) {
		t.Fatalf("expected clamp to max, got %s", got)
	}
	if got := ClampAdjust(d("8"), d("1"), d("10")); !got.Equal(d("9")) {
		t.Fatalf("expected 9, got %s", got)
	}
}

func TestAlertAndRestockRules(t *testing.T) {
	if !NeedsAlert(d("5"), d("5")) || NeedsAlert(d("5.5"), d("5")) {
		t.Fatal("alert fires at or below minimum only")
	}
	if IsRestock(d("10"), d("10")) || !IsRestock(d("4"), d("10")) || IsRestock(d("10"), d("4")) {
		t.Fatal("restock only on strict increase")
	}
}

func TestSummarize(t *testing.T) {
	items := []models.InventoryItem{
		{CurrentStock: d("2"), MinimumStock: d("5")},
		{CurrentStock: d("7"), MinimumStock: d("5")},
		{CurrentStock: d("50"), MinimumStock: d("5")},
		{CurrentStock: d("5"), MinimumStock: d("5")},
	}
	got := Summarize(items, DefaultLowFactor)
	if got != (Summary{Total: 4, Critical: 2, Low: 1, Good: 1}) {
		t.Fatalf("unexpected summary %+v", got)
	}
}
