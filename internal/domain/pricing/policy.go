package pricing

import "errors"

var (
	ErrInvalidTaxRate      = errors.New("tax rate must be between 0 and 1")
	ErrInvalidThreshold    = errors.New("free shipping threshold cannot be negative")
	ErrInvalidShippingFee  = errors.New("flat shipping fee cannot be negative")
	ErrInvalidPointValue   = errors.New("point value must be positive")
	ErrInvalidFraction     = errors.New("max points redemption fraction must be between 0 and 1")
	ErrInvalidAccrualUnit  = errors.New("accrual unit must be positive")
)

// Policy carries the currency-agnostic pricing constants. Amounts are in
// cents; a malformed policy is a configuration fault and fails at startup,
// never mid-checkout.
type Policy struct {
	TaxRate                     float64
	FreeShippingThresholdCents  int64
	FlatShippingFeeCents        int64
	PointValueCents             int64
	MaxPointsRedemptionFraction float64
	// AccrualUnitCents is the spend that earns one loyalty point.
	AccrualUnitCents int64
}

func NewPolicy(
	taxRate float64,
	freeShippingThresholdCents int64,
	flatShippingFeeCents int64,
	pointValueCents int64,
	maxPointsRedemptionFraction float64,
	accrualUnitCents int64,
) (Policy, error) {
	p := Policy{
		TaxRate:                     taxRate,
		FreeShippingThresholdCents:  freeShippingThresholdCents,
		FlatShippingFeeCents:        flatShippingFeeCents,
		PointValueCents:             pointValueCents,
		MaxPointsRedemptionFraction: maxPointsRedemptionFraction,
		AccrualUnitCents:            accrualUnitCents,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.TaxRate < 0 || p.TaxRate > 1 {
		return ErrInvalidTaxRate
	}
	if p.FreeShippingThresholdCents < 0 {
		return ErrInvalidThreshold
	}
	if p.FlatShippingFeeCents < 0 {
		return ErrInvalidShippingFee
	}
	if p.PointValueCents <= 0 {
		return ErrInvalidPointValue
	}
	if p.MaxPointsRedemptionFraction < 0 || p.MaxPointsRedemptionFraction > 1 {
		return ErrInvalidFraction
	}
	if p.AccrualUnitCents <= 0 {
		return ErrInvalidAccrualUnit
	}
	return nil
}

// AccrualPoints returns the purchase points earned for a final order total.
func (p Policy) AccrualPoints(totalCents int64) int64 {
	if totalCents <= 0 {
		return 0
	}
	return totalCents / p.AccrualUnitCents
}
