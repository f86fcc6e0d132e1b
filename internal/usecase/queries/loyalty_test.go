//go:build unit

package queries_test

import (
	"context"
	"testing"

	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoyaltyViewRepo struct {
	account          *queries.BalanceView
	history          []*queries.HistoryEntryView
	badges           []*queries.BadgeView
	sumAvailable     int64
	sumLifetime      int64
	findAccountCalls int
}

func (r *fakeLoyaltyViewRepo) FindAccount(_ context.Context, userID uuid.UUID) (*queries.BalanceView, error) {
	r.findAccountCalls++
	if r.account != nil {
		return r.account, nil
	}
	return &queries.BalanceView{UserID: userID, Status: "active"}, nil
}

func (r *fakeLoyaltyViewRepo) FindHistory(_ context.Context, _ uuid.UUID, limit int32) ([]*queries.HistoryEntryView, error) {
	if int(limit) < len(r.history) {
		return r.history[:limit], nil
	}
	return r.history, nil
}

func (r *fakeLoyaltyViewRepo) FindBadges(_ context.Context, _ uuid.UUID) ([]*queries.BadgeView, error) {
	return r.badges, nil
}

func (r *fakeLoyaltyViewRepo) SumHistory(_ context.Context, _ uuid.UUID) (int64, int64, error) {
	return r.sumAvailable, r.sumLifetime, nil
}

type mapCache struct {
	views map[uuid.UUID]*queries.BalanceView
}

func newMapCache() *mapCache {
	return &mapCache{views: make(map[uuid.UUID]*queries.BalanceView)}
}

func (c *mapCache) Get(userID uuid.UUID) (*queries.BalanceView, bool) {
	view, ok := c.views[userID]
	return view, ok
}

func (c *mapCache) Put(view *queries.BalanceView) {
	c.views[view.UserID] = view
}

func (c *mapCache) Invalidate(userID uuid.UUID) {
	delete(c.views, userID)
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("misses fall through to the store and fill the cache", func(t *testing.T) {
		userID := uuid.New()
		repo := &fakeLoyaltyViewRepo{
			account: &queries.BalanceView{UserID: userID, AvailablePoints: 150, LifetimePoints: 500, Status: "active"},
		}
		cache := newMapCache()
		q := queries.NewLoyaltyQueries(repo, cache)

		first, err := q.GetBalance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(150), first.AvailablePoints)
		assert.Equal(t, 1, repo.findAccountCalls)

		// Second read is served from cache.
		_, err = q.GetBalance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.findAccountCalls)
	})

	t.Run("works without a cache", func(t *testing.T) {
		userID := uuid.New()
		repo := &fakeLoyaltyViewRepo{}
		q := queries.NewLoyaltyQueries(repo, nil)

		view, err := q.GetBalance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, view.UserID)
	})
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("no drift when the projection matches the ledger sum", func(t *testing.T) {
		userID := uuid.New()
		repo := &fakeLoyaltyViewRepo{
			account:      &queries.BalanceView{UserID: userID, AvailablePoints: 300, LifetimePoints: 800, Status: "active"},
			sumAvailable: 300,
			sumLifetime:  800,
		}
		q := queries.NewLoyaltyQueries(repo, newMapCache())

		result, err := q.Reconcile(ctx, userID)
		require.NoError(t, err)
		assert.False(t, result.Drift)
		assert.Equal(t, int64(300), result.ComputedAvailable)
	})

	t.Run("reports drift and refreshes the cache from the store", func(t *testing.T) {
		userID := uuid.New()
		stored := &queries.BalanceView{UserID: userID, AvailablePoints: 310, LifetimePoints: 800, Status: "active"}
		repo := &fakeLoyaltyViewRepo{
			account:      stored,
			sumAvailable: 300,
			sumLifetime:  800,
		}
		cache := newMapCache()
		cache.Put(&queries.BalanceView{UserID: userID, AvailablePoints: 999})
		q := queries.NewLoyaltyQueries(repo, cache)

		result, err := q.Reconcile(ctx, userID)
		require.NoError(t, err)
		assert.True(t, result.Drift)
		assert.Equal(t, int64(310), result.StoredAvailable)
		assert.Equal(t, int64(300), result.ComputedAvailable)

		cached, ok := cache.Get(userID)
		require.True(t, ok)
		assert.Equal(t, int64(310), cached.AvailablePoints)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	history := make([]*queries.HistoryEntryView, 60)
	for i := range history {
		history[i] = &queries.HistoryEntryView{ID: uuid.New(), Points: int64(i)}
	}
	repo := &fakeLoyaltyViewRepo{history: history}
	q := queries.NewLoyaltyQueries(repo, nil)

	t.Run("defaults the limit", func(t *testing.T) {
		entries, err := q.GetHistory(ctx, userID, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 50)
	})

	t.Run("honors an explicit limit", func(t *testing.T) {
		entries, err := q.GetHistory(ctx, userID, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 10)
	})
}
