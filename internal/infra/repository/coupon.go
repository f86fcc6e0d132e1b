package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// CouponRepository is the write side; it always runs against the DBTX the
// usecase hands it so redemption inserts join the settlement transaction.
type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

const couponColumns = `id, code, amount_off_cents, percent_off, active, uses_so_far, max_uses, expires_at`

func (r *CouponRepository) FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*commands.CouponSnapshot, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	row := dbtx.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, normalized)
	return scanCouponSnapshot(row, "failed to find coupon by code")
}

func (r *CouponRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.CouponSnapshot, error) {
	row := dbtx.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	return scanCouponSnapshot(row, "failed to find coupon by ID")
}

func scanCouponSnapshot(row pgx.Row, msg string) (*commands.CouponSnapshot, error) {
	var snap commands.CouponSnapshot
	err := row.Scan(
		&snap.ID,
		&snap.Code,
		&snap.AmountOffCents,
		&snap.PercentOff,
		&snap.Active,
		&snap.UsesSoFar,
		&snap.MaxUses,
		&snap.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr(msg, err)
	}
	return &snap, nil
}

func (r *CouponRepository) Create(ctx context.Context, dbtx db.DBTX, params commands.CreateCouponParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, `
		INSERT INTO coupons (code, amount_off_cents, percent_off, active, max_uses, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		params.Code, params.AmountOffCents, params.PercentOff, params.Active, params.MaxUses, params.ExpiresAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

func (r *CouponRepository) SetActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, active bool) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE coupons SET active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) HasRedemption(ctx context.Context, dbtx db.DBTX, userID, couponID uuid.UUID) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupon_redemptions WHERE user_id = $1 AND coupon_id = $2)`,
		userID, couponID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check coupon redemption", err)
	}
	return exists, nil
}

func (r *CouponRepository) InsertRedemption(ctx context.Context, dbtx db.DBTX, userID, couponID uuid.UUID, orderID *uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO coupon_redemptions (user_id, coupon_id, order_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, coupon_id) DO NOTHING`,
		userID, couponID, orderID)
	if err != nil {
		return infra.WrapRepoErr("failed to record coupon redemption", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon already redeemed by user", nil, infra.KindDuplicateKey)
	}

	if _, err := dbtx.Exec(ctx,
		`UPDATE coupons SET uses_so_far = uses_so_far + 1, updated_at = now() WHERE id = $1`, couponID); err != nil {
		return infra.WrapRepoErr("failed to increment coupon uses", err)
	}
	return nil
}
