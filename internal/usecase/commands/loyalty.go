package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"

	"github.com/google/uuid"
)

type LoyaltyCommands interface {
	// Award credits points. Purchase awards carry an order ID and are
	// idempotent per order: re-awarding is a no-op, never a double credit.
	Award(ctx context.Context, userID uuid.UUID, points int64, reason string, source loyalty.Source, orderID *uuid.UUID) error
	// Redeem spends points, failing with ErrInsufficientPoints rather than
	// ever driving the balance negative.
	Redeem(ctx context.Context, userID uuid.UUID, points int64, reason string) error
	// CheckBadges grants any newly qualified badges and returns them.
	CheckBadges(ctx context.Context, userID uuid.UUID) ([]loyalty.Badge, error)
}

type loyaltyCommandsImpl struct {
	ledgerRepo LedgerRepository
	badgeRepo  BadgeRepository
	tx         Transactor
	balances   BalanceInvalidator
}

func NewLoyaltyCommands(ledgerRepo LedgerRepository, badgeRepo BadgeRepository, tx Transactor, balances BalanceInvalidator) LoyaltyCommands {
	return &loyaltyCommandsImpl{
		ledgerRepo: ledgerRepo,
		badgeRepo:  badgeRepo,
		tx:         tx,
		balances:   balances,
	}
}

func (l *loyaltyCommandsImpl) Award(ctx context.Context, userID uuid.UUID, points int64, reason string, source loyalty.Source, orderID *uuid.UUID) error {
	if points <= 0 {
		return errs.Mark(loyalty.ErrNonPositivePoints, errs.ErrDomainValidation)
	}

	if err := l.tx.Within(ctx, func(tx db.DBTX) error {
		return awardInTx(ctx, l.ledgerRepo, tx, userID, points, reason, source, orderID)
	}); err != nil {
		return err
	}
	l.invalidate(userID)
	return nil
}

// loadAccount materializes the domain account so status and balance
// invariants are checked in one place before any SQL mutation commits a
// transition.
func loadAccount(ctx context.Context, repo LedgerRepository, tx db.DBTX, userID uuid.UUID) (*loyalty.Account, error) {
	snap, err := repo.GetAccount(ctx, tx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	account, err := loyalty.NewAccount(snap.UserID, snap.TotalPoints, snap.AvailablePoints, snap.LifetimePoints, loyalty.Status(snap.Status))
	if err != nil {
		// A stored row violating the balance invariant is corrupt data,
		// not a caller mistake.
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return account, nil
}

func markTransitionErr(err error) error {
	switch {
	case errors.Is(err, loyalty.ErrAccountNotActive):
		return errs.Mark(err, errs.ErrLoyaltyAccountLocked)
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		return errs.Mark(err, errs.ErrInsufficientPoints)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}

func awardInTx(
	ctx context.Context,
	repo LedgerRepository,
	tx db.DBTX,
	userID uuid.UUID,
	points int64,
	reason string,
	source loyalty.Source,
	orderID *uuid.UUID,
) error {
	if err := repo.EnsureAccount(ctx, tx, userID); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	account, err := loadAccount(ctx, repo, tx, userID)
	if err != nil {
		return err
	}
	if err := account.Award(points); err != nil {
		return markTransitionErr(err)
	}

	inserted, err := repo.InsertEntry(ctx, tx, NewHistoryEntry{
		UserID:  userID,
		Points:  points,
		Reason:  reason,
		Source:  source,
		OrderID: orderID,
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !inserted {
		// Replayed purchase award for an order already credited.
		slog.Info("skipping duplicate points award", "user_id", userID, "order_id", orderID)
		return nil
	}

	if err := repo.ApplyAward(ctx, tx, userID, points); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, errs.ErrLoyaltyAccountLocked)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (l *loyaltyCommandsImpl) Redeem(ctx context.Context, userID uuid.UUID, points int64, reason string) error {
	if points <= 0 {
		return errs.Mark(loyalty.ErrNonPositivePoints, errs.ErrDomainValidation)
	}

	if err := l.tx.Within(ctx, func(tx db.DBTX) error {
		return redeemInTx(ctx, l.ledgerRepo, tx, userID, points, reason)
	}); err != nil {
		return err
	}
	l.invalidate(userID)
	return nil
}

func (l *loyaltyCommandsImpl) invalidate(userID uuid.UUID) {
	if l.balances != nil {
		l.balances.Invalidate(userID)
	}
}

func redeemInTx(
	ctx context.Context,
	repo LedgerRepository,
	tx db.DBTX,
	userID uuid.UUID,
	points int64,
	reason string,
) error {
	account, err := loadAccount(ctx, repo, tx, userID)
	if err != nil {
		return err
	}
	if err := account.Redeem(points); err != nil {
		return markTransitionErr(err)
	}

	// The conditional UPDATE is still the arbiter under concurrency: the
	// domain check above can pass in two racing transactions, only one of
	// which gets the balance.
	applied, err := repo.ApplyRedeem(ctx, tx, userID, points)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !applied {
		return errs.ErrInsufficientPoints
	}

	if _, err := repo.InsertEntry(ctx, tx, NewHistoryEntry{
		UserID: userID,
		Points: -points,
		Reason: reason,
		Source: loyalty.SourceRedemption,
	}); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (l *loyaltyCommandsImpl) CheckBadges(ctx context.Context, userID uuid.UUID) ([]loyalty.Badge, error) {
	return checkBadges(ctx, l.ledgerRepo, l.badgeRepo, l.tx.DB(), userID)
}

func checkBadges(
	ctx context.Context,
	ledgerRepo LedgerRepository,
	badgeRepo BadgeRepository,
	dbtx db.DBTX,
	userID uuid.UUID,
) ([]loyalty.Badge, error) {
	account, err := ledgerRepo.GetAccount(ctx, dbtx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	hasPurchase, err := ledgerRepo.HasPurchaseEntry(ctx, dbtx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var newly []loyalty.Badge
	for _, badge := range loyalty.QualifiedBadges(account.LifetimePoints, hasPurchase) {
		granted, grantErr := badgeRepo.Grant(ctx, dbtx, userID, badge)
		if grantErr != nil {
			return nil, errs.Mark(grantErr, errs.ErrDatabaseOperationFailed)
		}
		if granted {
			newly = append(newly, badge)
		}
	}
	return newly, nil
}
