package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Wilfix07/ecom-sub000/internal/domain/coupon"
	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/infra/metrics"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/clock"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// confirmRetries bounds the retry of the settlement transaction on
// serialization conflicts before surfacing a transient failure.
const confirmRetries = 3

type QuoteParams struct {
	UserID     uuid.UUID
	Cart       pricing.CartSnapshot
	CouponCode *string
	Redemption *pricing.PointsRedemption
}

type QuoteResult struct {
	Breakdown pricing.Breakdown
	CouponID  *uuid.UUID
}

type ConfirmOrderParams struct {
	OrderID    uuid.UUID
	UserID     uuid.UUID
	Cart       pricing.CartSnapshot
	CouponCode *string
	Redemption *pricing.PointsRedemption
}

type ConfirmOrderResult struct {
	Breakdown      pricing.Breakdown
	PointsAwarded  int64
	PointsRedeemed int64
	NewBadges      []loyalty.Badge
}

type CheckoutCommands interface {
	// Quote validates the coupon and prices the cart without touching any
	// state; it is the calculation every checkout surface shares.
	Quote(ctx context.Context, params QuoteParams) (*QuoteResult, error)
	// ConfirmOrder settles a durably confirmed order: coupon redemption,
	// points debit and accrual credit happen in one transaction.
	ConfirmOrder(ctx context.Context, params ConfirmOrderParams) (*ConfirmOrderResult, error)
}

type checkoutCommandsImpl struct {
	couponRepo CouponRepository
	ledgerRepo LedgerRepository
	badgeRepo  BadgeRepository
	publisher  EventPublisher
	metrics    *metrics.Metrics
	policy     pricing.Policy
	tx         Transactor
	balances   BalanceInvalidator
	clock      clock.Clock
}

func NewCheckoutCommands(
	couponRepo CouponRepository,
	ledgerRepo LedgerRepository,
	badgeRepo BadgeRepository,
	publisher EventPublisher,
	m *metrics.Metrics,
	policy pricing.Policy,
	tx Transactor,
	balances BalanceInvalidator,
	clk clock.Clock,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		couponRepo: couponRepo,
		ledgerRepo: ledgerRepo,
		badgeRepo:  badgeRepo,
		publisher:  publisher,
		metrics:    m,
		policy:     policy,
		tx:         tx,
		balances:   balances,
		clock:      clk,
	}
}

func (c *checkoutCommandsImpl) Quote(ctx context.Context, params QuoteParams) (*QuoteResult, error) {
	if err := params.Cart.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	couponEntity, couponID, err := c.resolveCoupon(ctx, params.CouponCode, params.UserID)
	if err != nil {
		c.countCouponRejection(err)
		return nil, err
	}

	redemption, err := c.clampRedemption(ctx, params.UserID, params.Redemption)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.ComputeBreakdown(params.Cart, couponEntity, redemption, c.policy)
	if c.metrics != nil {
		c.metrics.QuotesTotal.Inc()
	}
	return &QuoteResult{Breakdown: breakdown, CouponID: couponID}, nil
}

func (c *checkoutCommandsImpl) ConfirmOrder(ctx context.Context, params ConfirmOrderParams) (*ConfirmOrderResult, error) {
	if err := params.Cart.Validate(); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var result *ConfirmOrderResult
	var err error
	for attempt := 0; attempt < confirmRetries; attempt++ {
		result, err = c.settleOnce(ctx, params)
		if err == nil || !isSerializationFailure(err) {
			break
		}
		slog.Warn("retrying order settlement after conflict",
			"order_id", params.OrderID, "attempt", attempt+1)
	}
	if err != nil {
		if isSerializationFailure(err) {
			return nil, errs.Mark(err, errs.ErrConcurrencyConflict)
		}
		return nil, err
	}

	// Badges derive from committed state; grants are idempotent so a crash
	// between commit and here only delays them until the next check.
	newBadges, badgeErr := checkBadges(ctx, c.ledgerRepo, c.badgeRepo, c.tx.DB(), params.UserID)
	if badgeErr != nil {
		slog.Warn("badge check failed after settlement", "user_id", params.UserID, "error", badgeErr)
	}
	result.NewBadges = newBadges

	if c.balances != nil && (result.PointsAwarded > 0 || result.PointsRedeemed > 0) {
		c.balances.Invalidate(params.UserID)
	}

	c.recordConfirm(result)
	c.publish(ctx, params, result)

	return result, nil
}

// settleOnce runs the single settlement transaction: re-validate the coupon,
// price the cart, record the redemption, debit consumed points, credit
// accrual points.
func (c *checkoutCommandsImpl) settleOnce(ctx context.Context, params ConfirmOrderParams) (*ConfirmOrderResult, error) {
	var result ConfirmOrderResult

	err := c.tx.Within(ctx, func(tx db.DBTX) error {
		var couponEntity *coupon.Coupon
		var couponID *uuid.UUID
		if params.CouponCode != nil {
			snap, validateErr := validateCoupon(ctx, c.couponRepo, tx, *params.CouponCode, params.UserID, c.clock)
			if validateErr != nil {
				c.countCouponRejection(validateErr)
				return validateErr
			}
			entity, entityErr := toCouponEntity(snap)
			if entityErr != nil {
				return errs.Mark(entityErr, errs.ErrDomainValidation)
			}
			couponEntity = entity
			couponID = &snap.ID
		}

		breakdown := pricing.ComputeBreakdown(params.Cart, couponEntity, params.Redemption, c.policy)
		result.Breakdown = breakdown

		if couponID != nil {
			if err := recordRedemption(ctx, c.couponRepo, tx, params.UserID, *couponID, &params.OrderID); err != nil {
				return err
			}
		}

		if breakdown.PointsConsumed > 0 {
			if err := redeemInTx(ctx, c.ledgerRepo, tx, params.UserID, breakdown.PointsConsumed, "points redeemed at checkout"); err != nil {
				return err
			}
			result.PointsRedeemed = breakdown.PointsConsumed
		}

		if earned := c.policy.AccrualPoints(breakdown.TotalCents); earned > 0 {
			if err := awardInTx(ctx, c.ledgerRepo, tx, params.UserID, earned, "purchase reward", loyalty.SourcePurchase, &params.OrderID); err != nil {
				return err
			}
			result.PointsAwarded = earned
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *checkoutCommandsImpl) resolveCoupon(ctx context.Context, code *string, userID uuid.UUID) (*coupon.Coupon, *uuid.UUID, error) {
	if code == nil {
		return nil, nil, nil
	}
	snap, err := validateCoupon(ctx, c.couponRepo, c.tx.DB(), *code, userID, c.clock)
	if err != nil {
		return nil, nil, err
	}
	entity, err := toCouponEntity(snap)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return entity, &snap.ID, nil
}

// clampRedemption re-clamps the requested points to the available balance so
// a stale client figure degrades instead of failing the quote.
func (c *checkoutCommandsImpl) clampRedemption(ctx context.Context, userID uuid.UUID, redemption *pricing.PointsRedemption) (*pricing.PointsRedemption, error) {
	if redemption == nil || !redemption.Enabled || redemption.PointsToUse <= 0 {
		return redemption, nil
	}

	account, err := c.ledgerRepo.GetAccount(ctx, c.tx.DB(), userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	clamped := *redemption
	if clamped.PointsToUse > account.AvailablePoints {
		clamped.PointsToUse = account.AvailablePoints
	}
	return &clamped, nil
}

func (c *checkoutCommandsImpl) countCouponRejection(err error) {
	if c.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, errs.ErrCouponNotFound):
		c.metrics.CouponRejectionsTotal.WithLabelValues("not_found").Inc()
	case errors.Is(err, errs.ErrCouponInactive):
		c.metrics.CouponRejectionsTotal.WithLabelValues("inactive").Inc()
	case errors.Is(err, errs.ErrCouponExpired):
		c.metrics.CouponRejectionsTotal.WithLabelValues("expired").Inc()
	case errors.Is(err, errs.ErrCouponUsageLimitReached):
		c.metrics.CouponRejectionsTotal.WithLabelValues("usage_limit").Inc()
	case errors.Is(err, errs.ErrCouponAlreadyRedeemed):
		c.metrics.CouponRejectionsTotal.WithLabelValues("already_redeemed").Inc()
	}
}

func (c *checkoutCommandsImpl) recordConfirm(result *ConfirmOrderResult) {
	if c.metrics == nil {
		return
	}
	c.metrics.ConfirmationsTotal.Inc()
	if result.PointsAwarded > 0 {
		c.metrics.PointsAwardedTotal.Add(float64(result.PointsAwarded))
	}
	if result.PointsRedeemed > 0 {
		c.metrics.PointsRedeemedTotal.Add(float64(result.PointsRedeemed))
	}
	for _, badge := range result.NewBadges {
		c.metrics.BadgesGrantedTotal.WithLabelValues(badge.String()).Inc()
	}
}

func (c *checkoutCommandsImpl) publish(ctx context.Context, params ConfirmOrderParams, result *ConfirmOrderResult) {
	if c.publisher == nil {
		return
	}
	event := LoyaltyEvent{
		EventID:        uuid.New(),
		UserID:         params.UserID,
		OrderID:        params.OrderID,
		TotalCents:     result.Breakdown.TotalCents,
		PointsAwarded:  result.PointsAwarded,
		PointsRedeemed: result.PointsRedeemed,
		NewBadges:      result.NewBadges,
		Timestamp:      c.clock.Now(),
	}
	if err := c.publisher.PublishLoyaltyEvent(ctx, event); err != nil {
		// Event delivery is best effort; the ledger is already settled.
		slog.Warn("failed to publish loyalty event", "order_id", params.OrderID, "error", err)
	}
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
