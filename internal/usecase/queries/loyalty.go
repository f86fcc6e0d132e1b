package queries

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type LoyaltyQueries interface {
	// GetBalance reads through the cache; the ledger store stays the
	// source of truth and every miss refreshes the cached copy.
	GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceView, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*HistoryEntryView, error)
	GetBadges(ctx context.Context, userID uuid.UUID) ([]*BadgeView, error)
	// Reconcile recomputes the balance from the history sum to detect
	// drift between the projection and the append-only ledger.
	Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileResult, error)
}

type LoyaltyViewRepo interface {
	FindAccount(ctx context.Context, userID uuid.UUID) (*BalanceView, error)
	FindHistory(ctx context.Context, userID uuid.UUID, limit int32) ([]*HistoryEntryView, error)
	FindBadges(ctx context.Context, userID uuid.UUID) ([]*BadgeView, error)
	// SumHistory returns the signed sum of all entries (the reconcilable
	// available balance) and the sum of positive entries (lifetime).
	SumHistory(ctx context.Context, userID uuid.UUID) (available int64, lifetime int64, err error)
}

// BalanceCache is a read-through cache over FindAccount. Misses and stale
// reads are acceptable; the authoritative balance is always the store's.
type BalanceCache interface {
	Get(userID uuid.UUID) (*BalanceView, bool)
	Put(view *BalanceView)
	Invalidate(userID uuid.UUID)
}

type loyaltyQueriesImpl struct {
	repo  LoyaltyViewRepo
	cache BalanceCache
}

func NewLoyaltyQueries(repo LoyaltyViewRepo, cache BalanceCache) LoyaltyQueries {
	return &loyaltyQueriesImpl{repo: repo, cache: cache}
}

func (q *loyaltyQueriesImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*BalanceView, error) {
	if q.cache != nil {
		if view, ok := q.cache.Get(userID); ok {
			return view, nil
		}
	}

	view, err := q.repo.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		q.cache.Put(view)
	}
	return view, nil
}

func (q *loyaltyQueriesImpl) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*HistoryEntryView, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindHistory(ctx, userID, int32(limit))
}

func (q *loyaltyQueriesImpl) GetBadges(ctx context.Context, userID uuid.UUID) ([]*BadgeView, error) {
	return q.repo.FindBadges(ctx, userID)
}

func (q *loyaltyQueriesImpl) Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileResult, error) {
	account, err := q.repo.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	available, lifetime, err := q.repo.SumHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		UserID:            userID,
		StoredAvailable:   account.AvailablePoints,
		ComputedAvailable: available,
		StoredLifetime:    account.LifetimePoints,
		ComputedLifetime:  lifetime,
		Drift:             account.AvailablePoints != available || account.LifetimePoints != lifetime,
	}

	if result.Drift {
		slog.Warn("loyalty balance drift detected",
			"user_id", userID,
			"stored_available", result.StoredAvailable,
			"computed_available", result.ComputedAvailable)
	}

	// A reconcile always refreshes the cached copy from the store.
	if q.cache != nil {
		q.cache.Invalidate(userID)
		q.cache.Put(account)
	}

	return result, nil
}
