package repository

import (
	"context"

	"github.com/Wilfix07/ecom-sub000/internal/domain/loyalty"
	"github.com/Wilfix07/ecom-sub000/internal/infra"
	"github.com/Wilfix07/ecom-sub000/internal/infra/db"

	"github.com/google/uuid"
)

type BadgeRepository struct{}

func NewBadgeRepository() *BadgeRepository {
	return &BadgeRepository{}
}

func (r *BadgeRepository) Grant(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, badge loyalty.Badge) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO loyalty_badges (user_id, badge)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge) DO NOTHING`, userID, badge.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to grant badge", err)
	}
	return tag.RowsAffected() > 0, nil
}
