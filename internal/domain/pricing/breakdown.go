package pricing

// Breakdown is the itemized result of pricing one checkout. Every field is
// non-negative; Total never goes below zero regardless of discount stacking.
type Breakdown struct {
	SubtotalCents       int64
	CouponDiscountCents int64
	PointsDiscountCents int64
	TaxCents            int64
	ShippingCents       int64
	TotalCents          int64
	// PointsConsumed is the whole number of points the points discount
	// actually spends. The ledger must be debited with this figure, not
	// with the amount the caller requested.
	PointsConsumed int64
}
