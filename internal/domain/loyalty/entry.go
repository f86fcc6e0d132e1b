package loyalty

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSource = errors.New("invalid points source")

// Source classifies where a ledger entry came from.
type Source string

const (
	SourcePurchase   Source = "purchase"
	SourceRedemption Source = "redemption"
	SourceRoulette   Source = "roulette"
	SourceReferral   Source = "referral"
	SourceBonus      Source = "bonus"
)

func NewSource(s string) (Source, error) {
	src := Source(s)
	switch src {
	case SourcePurchase, SourceRedemption, SourceRoulette, SourceReferral, SourceBonus:
		return src, nil
	default:
		return "", ErrInvalidSource
	}
}

func (s Source) String() string {
	return string(s)
}

// HistoryEntry is one immutable ledger row. Positive points are awards,
// negative points are redemptions. The account balances must stay
// reconcilable with the sum of these rows.
type HistoryEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Points    int64
	Reason    string
	Source    Source
	OrderID   *uuid.UUID
	CreatedAt time.Time
}
