package coupon

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is the case-insensitive coupon identifier, normalized to upper case.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Discount struct {
	amountOffCents *int64
	percentOff     *float64
}

func NewFixedDiscount(amountOffCents int64) (Discount, error) {
	if amountOffCents < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{amountOffCents: &amountOffCents}, nil
}

func NewPercentageDiscount(percentOff float64) (Discount, error) {
	if percentOff < 0 || percentOff > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{percentOff: &percentOff}, nil
}

func NewDiscount(amountOffCents *int64, percentOff *float64) (Discount, error) {
	if amountOffCents != nil && percentOff != nil {
		return Discount{}, errors.New("discount can only be either fixed amount or percentage, not both")
	}

	if amountOffCents == nil && percentOff == nil {
		return Discount{}, errors.New("discount must have either fixed amount or percentage")
	}

	if amountOffCents != nil {
		return NewFixedDiscount(*amountOffCents)
	}

	return NewPercentageDiscount(*percentOff)
}

func (d Discount) IsPercentage() bool {
	return d.percentOff != nil
}

func (d Discount) IsFixed() bool {
	return d.amountOffCents != nil
}

func (d Discount) AmountOffCents() int64 {
	if d.amountOffCents != nil {
		return *d.amountOffCents
	}
	return 0
}

func (d Discount) PercentOff() float64 {
	if d.percentOff != nil {
		return *d.percentOff
	}
	return 0
}

// DiscountCents computes the discount a subtotal earns. A fixed discount
// never exceeds the subtotal it applies to.
func (d Discount) DiscountCents(subtotalCents int64) int64 {
	if d.IsPercentage() {
		return int64(float64(subtotalCents) * (d.PercentOff() / 100.0))
	}

	if d.AmountOffCents() > subtotalCents {
		return subtotalCents
	}
	return d.AmountOffCents()
}
