//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/domain/pricing"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/clock"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	couponRepo *fakeCouponRepo
	ledgerRepo *fakeLedgerRepo
	badgeRepo  *fakeBadgeRepo
	publisher  *fakePublisher
	clock      *clock.MockClock
	checkout   commands.CheckoutCommands
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	policy, err := pricing.NewPolicy(0.15, 500000, 50000, 10, 0.5, 10000)
	require.NoError(t, err)

	f := &checkoutFixture{
		couponRepo: newFakeCouponRepo(),
		ledgerRepo: newFakeLedgerRepo(),
		badgeRepo:  newFakeBadgeRepo(),
		publisher:  &fakePublisher{},
		clock:      clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.checkout = commands.NewCheckoutCommands(
		f.couponRepo,
		f.ledgerRepo,
		f.badgeRepo,
		f.publisher,
		nil,
		policy,
		fakeTransactor{},
		nil,
		f.clock,
	)
	return f
}

func (f *checkoutFixture) seedPercentCoupon(percent float64) commands.CouponSnapshot {
	snap := commands.CouponSnapshot{
		ID:         uuid.New(),
		Code:       "SAVE10",
		PercentOff: &percent,
		Active:     true,
	}
	f.couponRepo.put(snap)
	return snap
}

func twoThousandCart() pricing.CartSnapshot {
	return pricing.CartSnapshot{
		{ProductID: "p1", UnitPriceCents: 200000, Quantity: 1},
	}
}

func TestQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("prices the documented scenario", func(t *testing.T) {
		f := newCheckoutFixture(t)
		snap := f.seedPercentCoupon(10)
		code := "SAVE10"

		result, err := f.checkout.Quote(ctx, commands.QuoteParams{
			UserID:     uuid.New(),
			Cart:       twoThousandCart(),
			CouponCode: &code,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(200000), result.Breakdown.SubtotalCents)
		assert.Equal(t, int64(20000), result.Breakdown.CouponDiscountCents)
		assert.Equal(t, int64(27000), result.Breakdown.TaxCents)
		assert.Equal(t, int64(50000), result.Breakdown.ShippingCents)
		assert.Equal(t, int64(257000), result.Breakdown.TotalCents)
		require.NotNil(t, result.CouponID)
		assert.Equal(t, snap.ID, *result.CouponID)
	})

	t.Run("rejects an unknown coupon", func(t *testing.T) {
		f := newCheckoutFixture(t)
		code := "NOPE99"

		_, err := f.checkout.Quote(ctx, commands.QuoteParams{
			UserID:     uuid.New(),
			Cart:       twoThousandCart(),
			CouponCode: &code,
		})

		assert.ErrorIs(t, err, errs.ErrCouponNotFound)
	})

	t.Run("clamps requested points to the available balance", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		f.ledgerRepo.seed(userID, 300, 300, 300)

		result, err := f.checkout.Quote(ctx, commands.QuoteParams{
			UserID:     userID,
			Cart:       twoThousandCart(),
			Redemption: &pricing.PointsRedemption{Enabled: true, PointsToUse: 10000},
		})
		require.NoError(t, err)

		// Only 300 points exist, worth 30.00.
		assert.Equal(t, int64(3000), result.Breakdown.PointsDiscountCents)
		assert.Equal(t, int64(300), result.Breakdown.PointsConsumed)
	})

	t.Run("never mutates any state", func(t *testing.T) {
		f := newCheckoutFixture(t)
		snap := f.seedPercentCoupon(10)
		code := "SAVE10"
		userID := uuid.New()

		for i := 0; i < 3; i++ {
			_, err := f.checkout.Quote(ctx, commands.QuoteParams{
				UserID:     userID,
				Cart:       twoThousandCart(),
				CouponCode: &code,
			})
			require.NoError(t, err)
		}

		stored, err := f.couponRepo.FindByID(ctx, nil, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(0), stored.UsesSoFar)
		redeemed, err := f.couponRepo.HasRedemption(ctx, nil, userID, snap.ID)
		require.NoError(t, err)
		assert.False(t, redeemed)
	})

	t.Run("invalid cart is rejected before any lookup", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.checkout.Quote(ctx, commands.QuoteParams{
			UserID: uuid.New(),
			Cart:   pricing.CartSnapshot{{ProductID: "p1", UnitPriceCents: 100, Quantity: 0}},
		})

		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestConfirmOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("settles coupon, points and accrual in one pass", func(t *testing.T) {
		f := newCheckoutFixture(t)
		snap := f.seedPercentCoupon(10)
		code := "SAVE10"
		userID := uuid.New()
		orderID := uuid.New()
		f.ledgerRepo.seed(userID, 1000, 1000, 1000)

		result, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID:    orderID,
			UserID:     userID,
			Cart:       twoThousandCart(),
			CouponCode: &code,
			Redemption: &pricing.PointsRedemption{Enabled: true, PointsToUse: 1000},
		})
		require.NoError(t, err)

		// 2000.00 - 200.00 coupon - 10.00 points, tax on 1790.00, shipping.
		assert.Equal(t, int64(10000), result.Breakdown.PointsDiscountCents)
		assert.Equal(t, int64(1000), result.PointsRedeemed)
		assert.Equal(t, result.Breakdown.TotalCents/10000, result.PointsAwarded)

		account, err := f.ledgerRepo.GetAccount(ctx, nil, userID)
		require.NoError(t, err)
		assert.Equal(t, 1000-result.PointsRedeemed+result.PointsAwarded, account.AvailablePoints)

		redeemed, err := f.couponRepo.HasRedemption(ctx, nil, userID, snap.ID)
		require.NoError(t, err)
		assert.True(t, redeemed)
	})

	t.Run("grants first purchase and tier badges", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()

		// 120000.00 order earns 1200+ points: bronze plus first purchase.
		result, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID: uuid.New(),
			UserID:  userID,
			Cart: pricing.CartSnapshot{
				{ProductID: "p1", UnitPriceCents: 12000000, Quantity: 1},
			},
		})
		require.NoError(t, err)

		assert.Contains(t, result.NewBadges, loyalty.BadgeFirstPurchase)
		assert.Contains(t, result.NewBadges, loyalty.BadgeBronze)
	})

	t.Run("replaying the same order never double-credits", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		orderID := uuid.New()
		params := commands.ConfirmOrderParams{
			OrderID: orderID,
			UserID:  userID,
			Cart:    twoThousandCart(),
		}

		first, err := f.checkout.ConfirmOrder(ctx, params)
		require.NoError(t, err)
		require.Greater(t, first.PointsAwarded, int64(0))

		_, err = f.checkout.ConfirmOrder(ctx, params)
		require.NoError(t, err)

		account, err := f.ledgerRepo.GetAccount(ctx, nil, userID)
		require.NoError(t, err)
		assert.Equal(t, first.PointsAwarded, account.LifetimePoints)
	})

	t.Run("same coupon cannot settle twice for one user", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.seedPercentCoupon(10)
		code := "SAVE10"
		userID := uuid.New()

		_, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID:    uuid.New(),
			UserID:     userID,
			Cart:       twoThousandCart(),
			CouponCode: &code,
		})
		require.NoError(t, err)

		_, err = f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID:    uuid.New(),
			UserID:     userID,
			Cart:       twoThousandCart(),
			CouponCode: &code,
		})
		assert.ErrorIs(t, err, errs.ErrCouponAlreadyRedeemed)
	})

	t.Run("huge points requests settle like any over-cap request", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		f.ledgerRepo.seed(userID, 20000, 20000, 20000)

		result, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID:    uuid.New(),
			UserID:     userID,
			Cart:       twoThousandCart(),
			Redemption: &pricing.PointsRedemption{Enabled: true, PointsToUse: 1_000_000_000_000_000_000},
		})
		require.NoError(t, err)

		// Half the 2000.00 subtotal is the redemption ceiling, not the
		// nonsense the caller asked for.
		assert.Equal(t, int64(100000), result.Breakdown.PointsDiscountCents)
		assert.Equal(t, int64(10000), result.PointsRedeemed)
		assert.Equal(t, int64(165000), result.Breakdown.TotalCents)

		account, err := f.ledgerRepo.GetAccount(ctx, nil, userID)
		require.NoError(t, err)
		assert.Equal(t, 20000-result.PointsRedeemed+result.PointsAwarded, account.AvailablePoints)
	})

	t.Run("insufficient points fail the settlement", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		f.ledgerRepo.seed(userID, 10, 10, 10)

		_, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID:    uuid.New(),
			UserID:     userID,
			Cart:       twoThousandCart(),
			Redemption: &pricing.PointsRedemption{Enabled: true, PointsToUse: 1000},
		})

		assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
	})

	t.Run("publishes a loyalty event after settlement", func(t *testing.T) {
		f := newCheckoutFixture(t)
		userID := uuid.New()
		orderID := uuid.New()

		result, err := f.checkout.ConfirmOrder(ctx, commands.ConfirmOrderParams{
			OrderID: orderID,
			UserID:  userID,
			Cart:    twoThousandCart(),
		})
		require.NoError(t, err)

		require.Len(t, f.publisher.events, 1)
		event := f.publisher.events[0]
		assert.Equal(t, userID, event.UserID)
		assert.Equal(t, orderID, event.OrderID)
		assert.Equal(t, result.PointsAwarded, event.PointsAwarded)
	})
}
