//go:build unit

package commands_test

import (
	"context"
	"strings"
	"sync"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/google/uuid"
)

// fakeTransactor executes the function directly; the fakes below guard their
// own state, so the transaction boundary collapses to a plain call.
type fakeTransactor struct{}

func (fakeTransactor) Within(_ context.Context, fn func(tx db.DBTX) error) error {
	return fn(nil)
}

func (fakeTransactor) DB() db.DBTX { return nil }

type fakeCouponRepo struct {
	mu          sync.Mutex
	coupons     map[string]commands.CouponSnapshot // keyed by code
	redemptions map[string]bool                    // userID|couponID
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{
		coupons:     make(map[string]commands.CouponSnapshot),
		redemptions: make(map[string]bool),
	}
}

func (r *fakeCouponRepo) put(snap commands.CouponSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[snap.Code] = snap
}

func redemptionKey(userID, couponID uuid.UUID) string {
	return userID.String() + "|" + couponID.String()
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, _ db.DBTX, code string) (*commands.CouponSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The real store normalizes lookups to upper case.
	snap, ok := r.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	copied := snap
	return &copied, nil
}

func (r *fakeCouponRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*commands.CouponSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, snap := range r.coupons {
		if snap.ID == id {
			copied := snap
			return &copied, nil
		}
	}
	return nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
}

func (r *fakeCouponRepo) Create(_ context.Context, _ db.DBTX, params commands.CreateCouponParams) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.coupons[params.Code]; exists {
		return uuid.Nil, infra.WrapRepoErr("duplicate coupon code", nil, infra.KindDuplicateKey)
	}
	id := uuid.New()
	r.coupons[params.Code] = commands.CouponSnapshot{
		ID:             id,
		Code:           params.Code,
		AmountOffCents: params.AmountOffCents,
		PercentOff:     params.PercentOff,
		Active:         params.Active,
		MaxUses:        params.MaxUses,
		ExpiresAt:      params.ExpiresAt,
	}
	return id, nil
}

func (r *fakeCouponRepo) SetActive(_ context.Context, _ db.DBTX, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, snap := range r.coupons {
		if snap.ID == id {
			snap.Active = active
			r.coupons[code] = snap
			return nil
		}
	}
	return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
}

func (r *fakeCouponRepo) HasRedemption(_ context.Context, _ db.DBTX, userID, couponID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redemptions[redemptionKey(userID, couponID)], nil
}

func (r *fakeCouponRepo) InsertRedemption(_ context.Context, _ db.DBTX, userID, couponID uuid.UUID, _ *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := redemptionKey(userID, couponID)
	if r.redemptions[key] {
		return infra.WrapRepoErr("redemption already recorded", nil, infra.KindDuplicateKey)
	}
	r.redemptions[key] = true
	for code, snap := range r.coupons {
		if snap.ID == couponID {
			snap.UsesSoFar++
			r.coupons[code] = snap
		}
	}
	return nil
}

type ledgerEntry struct {
	points  int64
	source  loyalty.Source
	orderID *uuid.UUID
}

type fakeLedgerRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]commands.AccountSnapshot
	entries  map[uuid.UUID][]ledgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		accounts: make(map[uuid.UUID]commands.AccountSnapshot),
		entries:  make(map[uuid.UUID][]ledgerEntry),
	}
}

func (r *fakeLedgerRepo) seed(userID uuid.UUID, total, available, lifetime int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[userID] = commands.AccountSnapshot{
		UserID:          userID,
		TotalPoints:     total,
		AvailablePoints: available,
		LifetimePoints:  lifetime,
		Status:          string(loyalty.StatusActive),
	}
}

func (r *fakeLedgerRepo) lock(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.accounts[userID]
	snap.UserID = userID
	snap.Status = string(loyalty.StatusLocked)
	r.accounts[userID] = snap
}

func (r *fakeLedgerRepo) EnsureAccount(_ context.Context, _ db.DBTX, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[userID]; !ok {
		r.accounts[userID] = commands.AccountSnapshot{
			UserID: userID,
			Status: string(loyalty.StatusActive),
		}
	}
	return nil
}

func (r *fakeLedgerRepo) GetAccount(_ context.Context, _ db.DBTX, userID uuid.UUID) (*commands.AccountSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.accounts[userID]
	if !ok {
		snap = commands.AccountSnapshot{UserID: userID, Status: string(loyalty.StatusActive)}
	}
	return &snap, nil
}

func (r *fakeLedgerRepo) InsertEntry(_ context.Context, _ db.DBTX, entry commands.NewHistoryEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.Source == loyalty.SourcePurchase && entry.OrderID != nil {
		for _, existing := range r.entries[entry.UserID] {
			if existing.source == loyalty.SourcePurchase && existing.orderID != nil && *existing.orderID == *entry.OrderID {
				return false, nil
			}
		}
	}
	r.entries[entry.UserID] = append(r.entries[entry.UserID], ledgerEntry{
		points:  entry.Points,
		source:  entry.Source,
		orderID: entry.OrderID,
	})
	return true, nil
}

func (r *fakeLedgerRepo) ApplyAward(_ context.Context, _ db.DBTX, userID uuid.UUID, points int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.accounts[userID]
	snap.UserID = userID
	snap.TotalPoints += points
	snap.AvailablePoints += points
	snap.LifetimePoints += points
	if snap.Status == "" {
		snap.Status = string(loyalty.StatusActive)
	}
	r.accounts[userID] = snap
	return nil
}

func (r *fakeLedgerRepo) ApplyRedeem(_ context.Context, _ db.DBTX, userID uuid.UUID, points int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.accounts[userID]
	if !ok || snap.AvailablePoints < points {
		return false, nil
	}
	snap.AvailablePoints -= points
	snap.TotalPoints -= points
	r.accounts[userID] = snap
	return true, nil
}

func (r *fakeLedgerRepo) HasPurchaseEntry(_ context.Context, _ db.DBTX, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries[userID] {
		if entry.source == loyalty.SourcePurchase {
			return true, nil
		}
	}
	return false, nil
}

type fakeBadgeRepo struct {
	mu      sync.Mutex
	granted map[uuid.UUID]map[loyalty.Badge]bool
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{granted: make(map[uuid.UUID]map[loyalty.Badge]bool)}
}

func (r *fakeBadgeRepo) Grant(_ context.Context, _ db.DBTX, userID uuid.UUID, badge loyalty.Badge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.granted[userID] == nil {
		r.granted[userID] = make(map[loyalty.Badge]bool)
	}
	if r.granted[userID][badge] {
		return false, nil
	}
	r.granted[userID][badge] = true
	return true, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []commands.LoyaltyEvent
}

func (p *fakePublisher) PublishLoyaltyEvent(_ context.Context, event commands.LoyaltyEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
