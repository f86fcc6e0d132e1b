package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInactive          = errors.New("coupon is not active")
	ErrExpired           = errors.New("coupon has expired")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// Coupon is a named discount rule redeemable once per user. Usage counters
// only change on an explicit redemption record, never during validation.
type Coupon struct {
	id        uuid.UUID
	code      Code
	discount  Discount
	active    bool
	usesSoFar int32
	maxUses   *int32
	expiresAt *time.Time
	createdAt time.Time
	updatedAt time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	amountOffCents *int64,
	percentOff *float64,
	active bool,
	usesSoFar int32,
	maxUses *int32,
	expiresAt *time.Time,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	if usesSoFar < 0 {
		return nil, errors.New("usesSoFar cannot be negative")
	}
	if maxUses != nil && *maxUses < 1 {
		return nil, errors.New("maxUses must be at least 1")
	}

	return &Coupon{
		id:        id,
		code:      couponCode,
		discount:  discount,
		active:    active,
		usesSoFar: usesSoFar,
		maxUses:   maxUses,
		expiresAt: expiresAt,
	}, nil
}

// ValidateUsage runs the state checks a redemption must pass, in a fixed
// order so the caller always gets the first failing reason: inactive,
// expired, usage limit. Per-user redemption history is checked by the
// usecase layer, which owns that lookup.
func (c *Coupon) ValidateUsage(now time.Time) error {
	if !c.active {
		return ErrInactive
	}
	if c.expiresAt != nil && now.After(*c.expiresAt) {
		return ErrExpired
	}
	if c.maxUses != nil && c.usesSoFar >= *c.maxUses {
		return ErrUsageLimitReached
	}
	return nil
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Discount() Discount    { return c.discount }
func (c *Coupon) Active() bool          { return c.active }
func (c *Coupon) UsesSoFar() int32      { return c.usesSoFar }
func (c *Coupon) MaxUses() *int32       { return c.maxUses }
func (c *Coupon) ExpiresAt() *time.Time { return c.expiresAt }
func (c *Coupon) CreatedAt() time.Time  { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time  { return c.updatedAt }
