//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/pkg/clock"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newCouponCommands(repo *fakeCouponRepo) commands.CouponCommands {
	return commands.NewCouponCommands(repo, fakeTransactor{}, clock.NewMockClock(testNow))
}

func seedCoupon(repo *fakeCouponRepo, mutate func(*commands.CouponSnapshot)) commands.CouponSnapshot {
	percent := 10.0
	snap := commands.CouponSnapshot{
		ID:         uuid.New(),
		Code:       "SAVE10",
		PercentOff: &percent,
		Active:     true,
	}
	if mutate != nil {
		mutate(&snap)
	}
	repo.put(snap)
	return snap
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid coupon passes", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seeded := seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)

		snap, err := cmds.Validate(ctx, "SAVE10", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, snap.ID)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)

		_, err := cmds.Validate(ctx, "save10", uuid.New())
		assert.NoError(t, err)
	})

	t.Run("rejection reasons in check order", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*commands.CouponSnapshot)
			errIs  error
		}{
			{
				name:   "inactive",
				mutate: func(s *commands.CouponSnapshot) { s.Active = false },
				errIs:  errs.ErrCouponInactive,
			},
			{
				name: "expired",
				mutate: func(s *commands.CouponSnapshot) {
					expired := testNow.Add(-time.Hour)
					s.ExpiresAt = &expired
				},
				errIs: errs.ErrCouponExpired,
			},
			{
				name: "usage limit reached",
				mutate: func(s *commands.CouponSnapshot) {
					max := int32(3)
					s.MaxUses = &max
					s.UsesSoFar = 3
				},
				errIs: errs.ErrCouponUsageLimitReached,
			},
			{
				name: "inactive reported before expired",
				mutate: func(s *commands.CouponSnapshot) {
					s.Active = false
					expired := testNow.Add(-time.Hour)
					s.ExpiresAt = &expired
				},
				errIs: errs.ErrCouponInactive,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := newFakeCouponRepo()
				seedCoupon(repo, tc.mutate)
				cmds := newCouponCommands(repo)

				_, err := cmds.Validate(ctx, "SAVE10", uuid.New())
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		cmds := newCouponCommands(newFakeCouponRepo())

		_, err := cmds.Validate(ctx, "MISSING", uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponNotFound)
	})

	t.Run("validation has no side effects, redemption does", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seeded := seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)
		userID := uuid.New()

		// Validating twice in a row succeeds both times.
		_, err := cmds.Validate(ctx, "SAVE10", userID)
		require.NoError(t, err)
		_, err = cmds.Validate(ctx, "SAVE10", userID)
		require.NoError(t, err)

		orderID := uuid.New()
		require.NoError(t, cmds.RecordRedemption(ctx, userID, seeded.ID, &orderID))

		// After the commit the same user is rejected.
		_, err = cmds.Validate(ctx, "SAVE10", userID)
		assert.ErrorIs(t, err, errs.ErrCouponAlreadyRedeemed)

		// Other users are unaffected.
		_, err = cmds.Validate(ctx, "SAVE10", uuid.New())
		assert.NoError(t, err)
	})

	t.Run("double redemption is rejected", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seeded := seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)
		userID := uuid.New()

		require.NoError(t, cmds.RecordRedemption(ctx, userID, seeded.ID, nil))
		err := cmds.RecordRedemption(ctx, userID, seeded.ID, nil)
		assert.ErrorIs(t, err, errs.ErrCouponAlreadyRedeemed)
	})
}

func TestCreateCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with a normalized code", func(t *testing.T) {
		repo := newFakeCouponRepo()
		cmds := newCouponCommands(repo)
		percent := 15.0

		id, err := cmds.Create(ctx, commands.CreateCouponParams{
			Code:       "spring15",
			PercentOff: &percent,
			Active:     true,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		snap, err := repo.FindByCode(ctx, nil, "SPRING15")
		require.NoError(t, err)
		assert.Equal(t, id, snap.ID)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)
		percent := 10.0

		_, err := cmds.Create(ctx, commands.CreateCouponParams{
			Code:       "SAVE10",
			PercentOff: &percent,
			Active:     true,
		})
		assert.ErrorIs(t, err, errs.ErrDuplicateCouponCode)
	})

	t.Run("malformed definitions never reach the store", func(t *testing.T) {
		repo := newFakeCouponRepo()
		cmds := newCouponCommands(repo)

		_, err := cmds.Create(ctx, commands.CreateCouponParams{Code: "bad code!"})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)

		percent := 150.0
		_, err = cmds.Create(ctx, commands.CreateCouponParams{Code: "TOOBIG", PercentOff: &percent})
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("toggles an existing coupon", func(t *testing.T) {
		repo := newFakeCouponRepo()
		seeded := seedCoupon(repo, nil)
		cmds := newCouponCommands(repo)

		require.NoError(t, cmds.SetActive(ctx, seeded.ID, false))

		_, err := cmds.Validate(ctx, "SAVE10", uuid.New())
		assert.ErrorIs(t, err, errs.ErrCouponInactive)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		cmds := newCouponCommands(newFakeCouponRepo())
		err := cmds.SetActive(ctx, uuid.New(), false)
		assert.ErrorIs(t, err, errs.ErrCouponNotFound)
	})
}
