package readstore

import (
	"context"
	"errors"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoyaltyReadStore struct {
	pool *pgxpool.Pool
}

func NewLoyaltyReadStore(pool *pgxpool.Pool) *LoyaltyReadStore {
	return &LoyaltyReadStore{pool: pool}
}

func (r *LoyaltyReadStore) FindAccount(ctx context.Context, userID uuid.UUID) (*queries.BalanceView, error) {
	var view queries.BalanceView
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, total_points, available_points, lifetime_points, status
		FROM loyalty_accounts WHERE user_id = $1`, userID,
	).Scan(&view.UserID, &view.TotalPoints, &view.AvailablePoints, &view.LifetimePoints, &view.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No ledger activity yet: a zero balance, same as the write side.
			return &queries.BalanceView{UserID: userID, Status: "active"}, nil
		}
		return nil, infra.WrapRepoErr("failed to find loyalty account", err)
	}
	return &view, nil
}

func (r *LoyaltyReadStore) FindHistory(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.HistoryEntryView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, points, reason, source, order_id, created_at
		FROM loyalty_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger history", err)
	}
	defer rows.Close()

	var views []*queries.HistoryEntryView
	for rows.Next() {
		var entry loyalty.HistoryEntry
		var rawSource string
		if scanErr := rows.Scan(&entry.ID, &entry.Points, &entry.Reason, &rawSource, &entry.OrderID, &entry.CreatedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan ledger entry", scanErr)
		}
		source, srcErr := loyalty.NewSource(rawSource)
		if srcErr != nil {
			return nil, infra.WrapRepoErr("ledger entry has unknown source", srcErr)
		}
		entry.Source = source
		entry.UserID = userID
		views = append(views, &queries.HistoryEntryView{
			ID:        entry.ID,
			Points:    entry.Points,
			Reason:    entry.Reason,
			Source:    entry.Source.String(),
			OrderID:   entry.OrderID,
			CreatedAt: entry.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ledger history", err)
	}
	return views, nil
}

func (r *LoyaltyReadStore) FindBadges(ctx context.Context, userID uuid.UUID) ([]*queries.BadgeView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT badge, granted_at
		FROM loyalty_badges
		WHERE user_id = $1
		ORDER BY granted_at`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list badges", err)
	}
	defer rows.Close()

	var views []*queries.BadgeView
	for rows.Next() {
		var view queries.BadgeView
		if scanErr := rows.Scan(&view.Badge, &view.GrantedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan badge", scanErr)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate badges", err)
	}
	return views, nil
}

func (r *LoyaltyReadStore) SumHistory(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var available, lifetime int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(points), 0),
		       COALESCE(SUM(points) FILTER (WHERE points > 0), 0)
		FROM loyalty_history WHERE user_id = $1`, userID,
	).Scan(&available, &lifetime)
	if err != nil {
		return 0, 0, infra.WrapRepoErr("failed to sum ledger history", err)
	}
	return available, lifetime, nil
}
