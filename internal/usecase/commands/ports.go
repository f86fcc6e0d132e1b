package commands

import (
	"context"
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type CouponSnapshot struct {
	ID             uuid.UUID
	Code           string
	AmountOffCents *int64
	PercentOff     *float64
	Active         bool
	UsesSoFar      int32
	MaxUses        *int32
	ExpiresAt      *time.Time
}

type AccountSnapshot struct {
	UserID          uuid.UUID
	TotalPoints     int64
	AvailablePoints int64
	LifetimePoints  int64
	Status          string
}

type NewHistoryEntry struct {
	UserID  uuid.UUID
	Points  int64
	Reason  string
	Source  loyalty.Source
	OrderID *uuid.UUID
}

type CreateCouponParams struct {
	Code           string
	AmountOffCents *int64
	PercentOff     *float64
	Active         bool
	MaxUses        *int32
	ExpiresAt      *time.Time
}

// Transactor scopes a set of repository calls to one database transaction.
type Transactor interface {
	Within(ctx context.Context, fn func(tx db.DBTX) error) error
	// DB is the non-transactional handle for single-statement operations.
	DB() db.DBTX
}

type CouponRepository interface {
	FindByCode(ctx context.Context, dbtx db.DBTX, code string) (*CouponSnapshot, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*CouponSnapshot, error)
	Create(ctx context.Context, dbtx db.DBTX, params CreateCouponParams) (uuid.UUID, error)
	SetActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, active bool) error
	// HasRedemption reports whether the user already redeemed the coupon.
	HasRedemption(ctx context.Context, dbtx db.DBTX, userID, couponID uuid.UUID) (bool, error)
	// InsertRedemption enforces the at-most-one-per-(user,coupon) invariant
	// with a unique constraint and bumps uses_so_far. Duplicate inserts
	// surface as KindDuplicateKey.
	InsertRedemption(ctx context.Context, dbtx db.DBTX, userID, couponID uuid.UUID, orderID *uuid.UUID) error
}

type LedgerRepository interface {
	// EnsureAccount creates the zero-balance account row if absent.
	EnsureAccount(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
	GetAccount(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*AccountSnapshot, error)
	// InsertEntry appends a history row. Entries with an order ID and the
	// purchase source are deduplicated by a partial unique index; a
	// duplicate insert reports inserted=false and leaves the ledger alone.
	InsertEntry(ctx context.Context, dbtx db.DBTX, entry NewHistoryEntry) (inserted bool, err error)
	// ApplyAward credits the balance projection.
	ApplyAward(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, points int64) error
	// ApplyRedeem is the single atomic read-modify-write that keeps the
	// balance non-negative: applied=false means insufficient points.
	ApplyRedeem(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, points int64) (applied bool, err error)
	HasPurchaseEntry(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (bool, error)
}

type BadgeRepository interface {
	// Grant is idempotent: granting a held badge reports granted=false.
	Grant(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, badge loyalty.Badge) (granted bool, err error)
}

// LoyaltyEvent is published after a confirmed order mutates the ledger.
type LoyaltyEvent struct {
	EventID        uuid.UUID       `json:"event_id"`
	UserID         uuid.UUID       `json:"user_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	TotalCents     int64           `json:"total_cents"`
	PointsAwarded  int64           `json:"points_awarded"`
	PointsRedeemed int64           `json:"points_redeemed"`
	NewBadges      []loyalty.Badge `json:"new_badges,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type EventPublisher interface {
	PublishLoyaltyEvent(ctx context.Context, event LoyaltyEvent) error
}

// BalanceInvalidator drops the cached balance view after a ledger write so
// the next read repopulates from the store.
type BalanceInvalidator interface {
	Invalidate(userID uuid.UUID)
}
