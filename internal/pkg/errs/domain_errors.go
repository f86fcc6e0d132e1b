package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Coupon validation rejections, surfaced verbatim to the caller.
	// The validator short-circuits, so exactly one of these is returned.
	ErrCouponNotFound          = errors.New("coupon not found")
	ErrCouponInactive          = errors.New("coupon inactive")
	ErrCouponExpired           = errors.New("coupon expired")
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
	ErrCouponAlreadyRedeemed   = errors.New("coupon already redeemed by user")
	ErrDuplicateCouponCode     = errors.New("coupon code already exists")

	// Loyalty ledger errors
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrLoyaltyAccountLocked = errors.New("loyalty account not active")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrConcurrencyConflict     = errors.New("concurrent update conflict")
)
