package readstore

import (
	"context"
	"errors"

	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponReadStore struct {
	pool *pgxpool.Pool
}

func NewCouponReadStore(pool *pgxpool.Pool) *CouponReadStore {
	return &CouponReadStore{pool: pool}
}

const couponViewColumns = `id, code, amount_off_cents, percent_off, active, uses_so_far, max_uses, expires_at, created_at, updated_at`

func (r *CouponReadStore) FindAll(ctx context.Context, limit int32) ([]*queries.CouponView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+couponViewColumns+` FROM coupons ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []*queries.CouponView
	for rows.Next() {
		view, scanErr := scanCouponView(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupons", err)
	}
	return views, nil
}

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+couponViewColumns+` FROM coupons WHERE id = $1`, id)
	return scanCouponView(row)
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var view queries.CouponView
	err := row.Scan(
		&view.ID,
		&view.Code,
		&view.AmountOffCents,
		&view.PercentOff,
		&view.Active,
		&view.UsesSoFar,
		&view.MaxUses,
		&view.ExpiresAt,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan coupon", err)
	}
	return &view, nil
}
