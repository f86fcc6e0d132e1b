package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type CouponView struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	AmountOffCents *int64     `json:"amount_off_cents,omitempty"`
	PercentOff     *float64   `json:"percent_off,omitempty"`
	Active         bool       `json:"active"`
	UsesSoFar      int32      `json:"uses_so_far"`
	MaxUses        *int32     `json:"max_uses,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type BalanceView struct {
	UserID          uuid.UUID `json:"user_id"`
	TotalPoints     int64     `json:"total_points"`
	AvailablePoints int64     `json:"available_points"`
	LifetimePoints  int64     `json:"lifetime_points"`
	Status          string    `json:"status"`
}

type HistoryEntryView struct {
	ID        uuid.UUID  `json:"id"`
	Points    int64      `json:"points"`
	Reason    string     `json:"reason"`
	Source    string     `json:"source"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type BadgeView struct {
	Badge     string    `json:"badge"`
	GrantedAt time.Time `json:"granted_at"`
}

// ReconcileResult compares the maintained balance projection against the sum
// of ledger history. Drift means a buggy cache or projection.
type ReconcileResult struct {
	UserID            uuid.UUID `json:"user_id"`
	StoredAvailable   int64     `json:"stored_available"`
	ComputedAvailable int64     `json:"computed_available"`
	StoredLifetime    int64     `json:"stored_lifetime"`
	ComputedLifetime  int64     `json:"computed_lifetime"`
	Drift             bool      `json:"drift"`
}
