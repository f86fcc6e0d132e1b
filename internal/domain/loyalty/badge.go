package loyalty

// Badge is a cosmetic status level. Tier badges are a monotone step function
// of lifetime points; first_purchase is independent of tiers.
type Badge string

const (
	BadgeBronze        Badge = "bronze"
	BadgeSilver        Badge = "silver"
	BadgeGold          Badge = "gold"
	BadgePlatinum      Badge = "platinum"
	BadgeDiamond       Badge = "diamond"
	BadgeFirstPurchase Badge = "first_purchase"
)

var tierThresholds = []struct {
	badge     Badge
	threshold int64
}{
	{BadgeBronze, 1_000},
	{BadgeSilver, 10_000},
	{BadgeGold, 25_000},
	{BadgePlatinum, 50_000},
	{BadgeDiamond, 100_000},
}

// QualifiedBadges recomputes the full badge set for an account. It is a pure
// derivation: calling it twice for the same inputs yields the same set, which
// is what makes grants idempotent.
func QualifiedBadges(lifetimePoints int64, hasPurchase bool) []Badge {
	var badges []Badge
	for _, t := range tierThresholds {
		if lifetimePoints >= t.threshold {
			badges = append(badges, t.badge)
		}
	}
	if hasPurchase {
		badges = append(badges, BadgeFirstPurchase)
	}
	return badges
}

func (b Badge) String() string {
	return string(b)
}
