package queries

import (
	"context"

	"github.com/google/uuid"
)

type CouponQueries interface {
	List(ctx context.Context, limit int) ([]*CouponView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
}

type CouponViewRepo interface {
	FindAll(ctx context.Context, limit int32) ([]*CouponView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) List(ctx context.Context, limit int) ([]*CouponView, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindAll(ctx, int32(limit))
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	return q.repo.FindByID(ctx, id)
}
