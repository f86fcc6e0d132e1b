package cache

import (
	"encoding/json"
	"log/slog"
	"path/filepath"

	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
)

// BalanceCache is a pebble-backed read-through cache of loyalty balances.
// It is strictly a cache: the ledger store is authoritative and Reconcile
// on the query side recomputes balances from history to catch drift. Cache
// failures degrade to store reads, never to wrong answers.
type BalanceCache struct {
	db *pebble.DB
}

// NewBalanceCache opens the cache at dir, or an in-memory store when dir is
// empty (tests, single-process dev).
func NewBalanceCache(dir string) (*BalanceCache, error) {
	opts := &pebble.Options{}
	if dir == "" {
		opts.FS = vfs.NewMem()
		dir = "balances"
	} else {
		dir = filepath.Clean(dir)
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errs.Wrap(err, "failed to open balance cache")
	}
	return &BalanceCache{db: db}, nil
}

func (c *BalanceCache) Close() error {
	return c.db.Close()
}

func key(userID uuid.UUID) []byte {
	return []byte("balance/" + userID.String())
}

func (c *BalanceCache) Get(userID uuid.UUID) (*queries.BalanceView, bool) {
	val, closer, err := c.db.Get(key(userID))
	if err != nil {
		if err != pebble.ErrNotFound {
			slog.Warn("balance cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	defer closer.Close()

	var view queries.BalanceView
	if err := json.Unmarshal(val, &view); err != nil {
		// A corrupt entry falls back to the store.
		slog.Warn("balance cache entry corrupt", "user_id", userID, "error", err)
		return nil, false
	}
	return &view, true
}

func (c *BalanceCache) Put(view *queries.BalanceView) {
	data, err := json.Marshal(view)
	if err != nil {
		slog.Warn("balance cache encode failed", "user_id", view.UserID, "error", err)
		return
	}
	if err := c.db.Set(key(view.UserID), data, pebble.NoSync); err != nil {
		slog.Warn("balance cache write failed", "user_id", view.UserID, "error", err)
	}
}

func (c *BalanceCache) Invalidate(userID uuid.UUID) {
	if err := c.db.Delete(key(userID), pebble.NoSync); err != nil {
		slog.Warn("balance cache invalidate failed", "user_id", userID, "error", err)
	}
}
