package request

import (
	"strings"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
)

type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r ValidateCouponRequest) GetCode() string {
	return strings.TrimSpace(r.Code)
}

type CreateCouponRequest struct {
	Code           string     `json:"code" binding:"required"`
	AmountOffCents *int64     `json:"amount_off_cents,omitempty"`
	PercentOff     *float64   `json:"percent_off,omitempty"`
	Active         bool       `json:"active"`
	MaxUses        *int32     `json:"max_uses,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

func (r CreateCouponRequest) ToParams() commands.CreateCouponParams {
	return commands.CreateCouponParams{
		Code:           strings.TrimSpace(r.Code),
		AmountOffCents: r.AmountOffCents,
		PercentOff:     r.PercentOff,
		Active:         r.Active,
		MaxUses:        r.MaxUses,
		ExpiresAt:      r.ExpiresAt,
	}
}

type SetCouponActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
