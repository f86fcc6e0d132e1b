package response

import (
	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
)

type BreakdownResponse struct {
	SubtotalCents       int64 `json:"subtotalCents"`
	CouponDiscountCents int64 `json:"couponDiscountCents"`
	PointsDiscountCents int64 `json:"pointsDiscountCents"`
	TaxCents            int64 `json:"taxCents"`
	ShippingCents       int64 `json:"shippingCents"`
	TotalCents          int64 `json:"totalCents"`
	PointsConsumed      int64 `json:"pointsConsumed"`
}

type QuoteResponse struct {
	Breakdown BreakdownResponse `json:"breakdown"`
	CouponID  *uuid.UUID        `json:"couponId,omitempty"`
}

type ConfirmResponse struct {
	Breakdown      BreakdownResponse `json:"breakdown"`
	PointsAwarded  int64             `json:"pointsAwarded"`
	PointsRedeemed int64             `json:"pointsRedeemed"`
	NewBadges      []string          `json:"newBadges"`
}

func FromBreakdown(b pricing.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		SubtotalCents:       b.SubtotalCents,
		CouponDiscountCents: b.CouponDiscountCents,
		PointsDiscountCents: b.PointsDiscountCents,
		TaxCents:            b.TaxCents,
		ShippingCents:       b.ShippingCents,
		TotalCents:          b.TotalCents,
		PointsConsumed:      b.PointsConsumed,
	}
}

func FromQuoteResult(r *commands.QuoteResult) *QuoteResponse {
	return &QuoteResponse{
		Breakdown: FromBreakdown(r.Breakdown),
		CouponID:  r.CouponID,
	}
}

func FromConfirmResult(r *commands.ConfirmOrderResult) *ConfirmResponse {
	badges := make([]string, 0, len(r.NewBadges))
	for _, badge := range r.NewBadges {
		badges = append(badges, badge.String())
	}
	return &ConfirmResponse{
		Breakdown:      FromBreakdown(r.Breakdown),
		PointsAwarded:  r.PointsAwarded,
		PointsRedeemed: r.PointsRedeemed,
		NewBadges:      badges,
	}
}
