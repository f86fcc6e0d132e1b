package request

import (
	"strings"

	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"

	"github.com/google/uuid"
)

type CartItemRequest struct {
	ProductID           string  `json:"product_id" binding:"required"`
	UnitPriceCents      int64   `json:"unit_price_cents" binding:"required"`
	Quantity            int     `json:"quantity" binding:"required"`
	LineDiscountPercent float64 `json:"line_discount_percent"`
}

type QuoteRequest struct {
	Items       []CartItemRequest `json:"items" binding:"required"`
	CouponCode  *string           `json:"coupon_code,omitempty"`
	UsePoints   bool              `json:"use_points"`
	PointsToUse int64             `json:"points_to_use" binding:"omitempty,min=0"`
}

type ConfirmRequest struct {
	OrderID     uuid.UUID         `json:"order_id" binding:"required"`
	Items       []CartItemRequest `json:"items" binding:"required"`
	CouponCode  *string           `json:"coupon_code,omitempty"`
	UsePoints   bool              `json:"use_points"`
	PointsToUse int64             `json:"points_to_use" binding:"omitempty,min=0"`
}

func (r QuoteRequest) GetCouponCode() *string {
	return trimCouponCode(r.CouponCode)
}

func (r ConfirmRequest) GetCouponCode() *string {
	return trimCouponCode(r.CouponCode)
}

func trimCouponCode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r QuoteRequest) ToCart() pricing.CartSnapshot {
	return toCart(r.Items)
}

func (r ConfirmRequest) ToCart() pricing.CartSnapshot {
	return toCart(r.Items)
}

func toCart(items []CartItemRequest) pricing.CartSnapshot {
	cart := make(pricing.CartSnapshot, 0, len(items))
	for _, item := range items {
		cart = append(cart, pricing.CartLine{
			ProductID:           item.ProductID,
			UnitPriceCents:      item.UnitPriceCents,
			Quantity:            item.Quantity,
			LineDiscountPercent: item.LineDiscountPercent,
		})
	}
	return cart
}

func (r QuoteRequest) ToRedemption() *pricing.PointsRedemption {
	return toRedemption(r.UsePoints, r.PointsToUse)
}

func (r ConfirmRequest) ToRedemption() *pricing.PointsRedemption {
	return toRedemption(r.UsePoints, r.PointsToUse)
}

func toRedemption(usePoints bool, pointsToUse int64) *pricing.PointsRedemption {
	if !usePoints {
		return nil
	}
	return &pricing.PointsRedemption{Enabled: true, PointsToUse: pointsToUse}
}
