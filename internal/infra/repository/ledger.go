package repository

import (
	"context"

	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
)

// LedgerRepository writes the append-only points history and the balance
// projection. Balance mutations are single conditional statements so the
// non-negative invariant holds under concurrent checkouts without explicit
// row locks.
type LedgerRepository struct{}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) EnsureAccount(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO loyalty_accounts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to ensure loyalty account", err)
	}
	return nil
}

func (r *LedgerRepository) GetAccount(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*commands.AccountSnapshot, error) {
	var snap commands.AccountSnapshot
	err := dbtx.QueryRow(ctx, `
		SELECT user_id, total_points, available_points, lifetime_points, status
		FROM loyalty_accounts WHERE user_id = $1`, userID,
	).Scan(&snap.UserID, &snap.TotalPoints, &snap.AvailablePoints, &snap.LifetimePoints, &snap.Status)
	if err != nil {
		if isNoRows(err) {
			// A user with no ledger activity has a zero balance, not an error.
			return &commands.AccountSnapshot{UserID: userID, Status: "active"}, nil
		}
		return nil, infra.WrapRepoErr("failed to find loyalty account", err)
	}
	return &snap, nil
}

func (r *LedgerRepository) InsertEntry(ctx context.Context, dbtx db.DBTX, entry commands.NewHistoryEntry) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO loyalty_history (user_id, points, reason, source, order_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		entry.UserID, entry.Points, entry.Reason, entry.Source.String(), entry.OrderID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LedgerRepository) ApplyAward(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, points int64) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE loyalty_accounts
		SET total_points = total_points + $1,
		    available_points = available_points + $1,
		    lifetime_points = lifetime_points + $1,
		    updated_at = now()
		WHERE user_id = $2 AND status = 'active'`, points, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to apply points award", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loyalty account missing or locked", nil, infra.KindConflict)
	}
	return nil
}

func (r *LedgerRepository) ApplyRedeem(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, points int64) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE loyalty_accounts
		SET total_points = total_points - $1,
		    available_points = available_points - $1,
		    updated_at = now()
		WHERE user_id = $2 AND status = 'active' AND available_points >= $1`, points, userID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to apply points redemption", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LedgerRepository) HasPurchaseEntry(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loyalty_history WHERE user_id = $1 AND source = 'purchase')`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check purchase history", err)
	}
	return exists, nil
}
