package loyalty

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNonPositivePoints  = errors.New("points must be positive")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrInvariantViolated  = errors.New("account balance invariant violated")
)

// Status leaves room for pending-order holds without changing the
// award/redeem contract. Only active accounts mutate today.
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// Account is the per-user balance projection of the points ledger.
// Invariant: available <= total <= lifetime, all non-negative, and lifetime
// never decreases.
type Account struct {
	userID          uuid.UUID
	totalPoints     int64
	availablePoints int64
	lifetimePoints  int64
	status          Status
}

func NewAccount(userID uuid.UUID, total, available, lifetime int64, status Status) (*Account, error) {
	a := &Account{
		userID:          userID,
		totalPoints:     total,
		availablePoints: available,
		lifetimePoints:  lifetime,
		status:          status,
	}
	if err := a.checkInvariant(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Account) checkInvariant() error {
	if a.availablePoints < 0 || a.totalPoints < 0 || a.lifetimePoints < 0 {
		return ErrInvariantViolated
	}
	if a.availablePoints > a.totalPoints || a.totalPoints > a.lifetimePoints {
		return ErrInvariantViolated
	}
	return nil
}

// Award credits earned points: total, available and lifetime all grow.
func (a *Account) Award(points int64) error {
	if points <= 0 {
		return ErrNonPositivePoints
	}
	if a.status != StatusActive {
		return ErrAccountNotActive
	}
	a.totalPoints += points
	a.availablePoints += points
	a.lifetimePoints += points
	return nil
}

// Redeem spends points: available and total shrink, lifetime is untouched so
// badge tiers never regress.
func (a *Account) Redeem(points int64) error {
	if points <= 0 {
		return ErrNonPositivePoints
	}
	if a.status != StatusActive {
		return ErrAccountNotActive
	}
	if points > a.availablePoints {
		return ErrInsufficientPoints
	}
	a.availablePoints -= points
	a.totalPoints -= points
	return a.checkInvariant()
}

func (a *Account) UserID() uuid.UUID      { return a.userID }
func (a *Account) TotalPoints() int64     { return a.totalPoints }
func (a *Account) AvailablePoints() int64 { return a.availablePoints }
func (a *Account) LifetimePoints() int64  { return a.lifetimePoints }
func (a *Account) Status() Status         { return a.status }
