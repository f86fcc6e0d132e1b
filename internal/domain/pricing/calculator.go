package pricing

import (
	"github.com/Wilfix07/ecom-sub000/internal/domain/coupon"
)

// PointsRedemption is the checkout's request to spend loyalty points.
// PointsToUse is clamped by the calculator; the caller is expected to have
// clamped it to the available balance already.
type PointsRedemption struct {
	Enabled     bool
	PointsToUse int64
}

// ComputeBreakdown prices one cart. The step order is fixed and observable
// through the intermediate fields: line-discounted subtotal, then coupon,
// then points, then tax on what remains, then shipping judged against the
// pre-discount subtotal. Pure function; safe to call concurrently and to
// retry.
func ComputeBreakdown(cart CartSnapshot, cpn *coupon.Coupon, redemption *PointsRedemption, policy Policy) Breakdown {
	if len(cart) == 0 {
		return Breakdown{}
	}

	subtotal := cart.SubtotalCents()

	var couponDiscount int64
	if cpn != nil {
		couponDiscount = cpn.Discount().DiscountCents(subtotal)
	}
	discountedSubtotal := subtotal - couponDiscount
	if discountedSubtotal < 0 {
		discountedSubtotal = 0
	}

	var pointsDiscount, pointsConsumed int64
	if redemption != nil && redemption.Enabled && redemption.PointsToUse > 0 {
		// Clamp the requested points before converting to cents: no request
		// can usefully exceed the discounted subtotal's worth of points, and
		// an unbounded multiply would overflow int64.
		points := redemption.PointsToUse
		if maxUseful := discountedSubtotal/policy.PointValueCents + 1; points > maxUseful {
			points = maxUseful
		}
		requested := points * policy.PointValueCents
		cap := int64(float64(discountedSubtotal) * policy.MaxPointsRedemptionFraction)
		pointsDiscount = min3(requested, cap, discountedSubtotal)
		// Fractional points are never spent.
		pointsConsumed = pointsDiscount / policy.PointValueCents
	}

	taxable := discountedSubtotal - pointsDiscount
	if taxable < 0 {
		taxable = 0
	}

	tax := int64(float64(taxable) * policy.TaxRate)

	// Free shipping is judged against the pre-discount subtotal (strict >)
	// so the threshold stays stable regardless of promotions.
	var shipping int64
	if subtotal <= policy.FreeShippingThresholdCents {
		shipping = policy.FlatShippingFeeCents
	}

	total := taxable + tax + shipping
	if total < 0 {
		total = 0
	}

	return Breakdown{
		SubtotalCents:       subtotal,
		CouponDiscountCents: couponDiscount,
		PointsDiscountCents: pointsDiscount,
		TaxCents:            tax,
		ShippingCents:       shipping,
		TotalCents:          total,
		PointsConsumed:      pointsConsumed,
	}
}

func min3(a, b, c int64) int64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
