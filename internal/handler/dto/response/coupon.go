package response

import (
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	AmountOffCents *int64     `json:"amountOffCents,omitempty"`
	PercentOff     *float64   `json:"percentOff,omitempty"`
	Active         bool       `json:"active"`
	UsesSoFar      int32      `json:"usesSoFar"`
	MaxUses        *int32     `json:"maxUses,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type ValidateCouponResponse struct {
	Valid          bool      `json:"valid"`
	CouponID       uuid.UUID `json:"couponId"`
	Code           string    `json:"code"`
	AmountOffCents *int64    `json:"amountOffCents,omitempty"`
	PercentOff     *float64  `json:"percentOff,omitempty"`
}

type CreateCouponResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:             v.ID,
		Code:           v.Code,
		AmountOffCents: v.AmountOffCents,
		PercentOff:     v.PercentOff,
		Active:         v.Active,
		UsesSoFar:      v.UsesSoFar,
		MaxUses:        v.MaxUses,
		ExpiresAt:      v.ExpiresAt,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func FromCouponSnapshot(s *commands.CouponSnapshot) *ValidateCouponResponse {
	return &ValidateCouponResponse{
		Valid:          true,
		CouponID:       s.ID,
		Code:           s.Code,
		AmountOffCents: s.AmountOffCents,
		PercentOff:     s.PercentOff,
	}
}
