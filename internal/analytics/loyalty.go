package analytics

import "github.com/angelmondragon/canteen-backend/internal/analytics/types"

func intPtr(v int) *int { return &v }

// Tiers is the loyalty ladder, lowest first.
var Tiers = []types.Tier{
	{Name: "Bronze", Min: 0, Max: intPtr(99)},
	{Name: "Silver", Min: 100, Max: intPtr(249)},
	{Name: "Gold", Min: 250, Max: intPtr(499)},
	{Name: "Platinum", Min: 500, Max: intPtr(999)},
	{Name: "Diamond", Min: 1000},
}

// LoyaltyFor places points on the ladder. Progress is the linear position
// between the current tier's floor and the next tier's floor, in percent;
// it is 100 on the top tier.
func LoyaltyFor(points int) types.Loyalty {
	if points < 0 {
		points = 0
	}
	idx := 0
	for i, tier := range Tiers {
		if points >= tier.Min {
			idx = i
		}
	}

	out := types.Loyalty{Points: points, Current: Tiers[idx], Progress: 100}
	if idx+1 < len(Tiers) {
		next := Tiers[idx+1]
		out.Next = &next
		out.PointsToNext = next.Min - points
		out.Progress = float64(points-out.Current.Min) / float64(next.Min-out.Current.Min) * 100
	}
	return out
}
