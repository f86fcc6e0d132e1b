package commands

import (
	"context"

	"github.com/Wilfix07/ecom-sub000/internal/domain/coupon"
	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/clock"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"

	"github.com/google/uuid"
)

type CouponCommands interface {
	// Validate runs the full applicability check for a user without any
	// side effect; it is safe to call repeatedly while a cart is edited.
	Validate(ctx context.Context, code string, userID uuid.UUID) (*CouponSnapshot, error)
	// RecordRedemption is the explicit commit step, called only after an
	// order is confirmed.
	RecordRedemption(ctx context.Context, userID, couponID uuid.UUID, orderID *uuid.UUID) error
	Create(ctx context.Context, params CreateCouponParams) (uuid.UUID, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type couponCommandsImpl struct {
	couponRepo CouponRepository
	tx         Transactor
	clock      clock.Clock
}

func NewCouponCommands(couponRepo CouponRepository, tx Transactor, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{
		couponRepo: couponRepo,
		tx:         tx,
		clock:      clk,
	}
}

func (c *couponCommandsImpl) Validate(ctx context.Context, code string, userID uuid.UUID) (*CouponSnapshot, error) {
	return validateCoupon(ctx, c.couponRepo, c.tx.DB(), code, userID, c.clock)
}

// validateCoupon short-circuits at the first failing check so the caller
// gets one specific rejection: not found, inactive, expired, usage limit,
// already redeemed.
func validateCoupon(
	ctx context.Context,
	repo CouponRepository,
	dbtx db.DBTX,
	code string,
	userID uuid.UUID,
	clk clock.Clock,
) (*CouponSnapshot, error) {
	snap, err := repo.FindByCode(ctx, dbtx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entity, err := toCouponEntity(snap)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if usageErr := entity.ValidateUsage(clk.Now()); usageErr != nil {
		switch usageErr {
		case coupon.ErrInactive:
			return nil, errs.ErrCouponInactive
		case coupon.ErrExpired:
			return nil, errs.ErrCouponExpired
		case coupon.ErrUsageLimitReached:
			return nil, errs.ErrCouponUsageLimitReached
		default:
			return nil, errs.Mark(usageErr, errs.ErrDomainValidation)
		}
	}

	redeemed, err := repo.HasRedemption(ctx, dbtx, userID, snap.ID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if redeemed {
		return nil, errs.ErrCouponAlreadyRedeemed
	}

	return snap, nil
}

func toCouponEntity(snap *CouponSnapshot) (*coupon.Coupon, error) {
	return coupon.NewCoupon(
		snap.ID,
		snap.Code,
		snap.AmountOffCents,
		snap.PercentOff,
		snap.Active,
		snap.UsesSoFar,
		snap.MaxUses,
		snap.ExpiresAt,
	)
}

func (c *couponCommandsImpl) RecordRedemption(ctx context.Context, userID, couponID uuid.UUID, orderID *uuid.UUID) error {
	return recordRedemption(ctx, c.couponRepo, c.tx.DB(), userID, couponID, orderID)
}

func recordRedemption(
	ctx context.Context,
	repo CouponRepository,
	dbtx db.DBTX,
	userID, couponID uuid.UUID,
	orderID *uuid.UUID,
) error {
	if err := repo.InsertRedemption(ctx, dbtx, userID, couponID, orderID); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return errs.ErrCouponAlreadyRedeemed
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *couponCommandsImpl) Create(ctx context.Context, params CreateCouponParams) (uuid.UUID, error) {
	// Build the entity first so a malformed code or discount never reaches
	// the store.
	normalized, err := coupon.NewCode(params.Code)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	params.Code = normalized.String()

	if _, err := coupon.NewCoupon(
		uuid.New(),
		params.Code,
		params.AmountOffCents,
		params.PercentOff,
		params.Active,
		0,
		params.MaxUses,
		params.ExpiresAt,
	); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	id, err := c.couponRepo.Create(ctx, c.tx.DB(), params)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.ErrDuplicateCouponCode
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return id, nil
}

func (c *couponCommandsImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := c.couponRepo.SetActive(ctx, c.tx.DB(), id, active); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrCouponNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
