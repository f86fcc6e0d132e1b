package response

import (
	"time"

	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/google/uuid"
)

type BalanceResponse struct {
	UserID          uuid.UUID `json:"userId"`
	TotalPoints     int64     `json:"totalPoints"`
	AvailablePoints int64     `json:"availablePoints"`
	LifetimePoints  int64     `json:"lifetimePoints"`
	Status          string    `json:"status"`
}

type HistoryEntryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Points    int64      `json:"points"`
	Reason    string     `json:"reason"`
	Source    string     `json:"source"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type BadgeResponse struct {
	Badge     string    `json:"badge"`
	GrantedAt time.Time `json:"grantedAt"`
}

type ReconcileResponse struct {
	UserID            uuid.UUID `json:"userId"`
	StoredAvailable   int64     `json:"storedAvailable"`
	ComputedAvailable int64     `json:"computedAvailable"`
	StoredLifetime    int64     `json:"storedLifetime"`
	ComputedLifetime  int64     `json:"computedLifetime"`
	Drift             bool      `json:"drift"`
}

func FromBalanceView(v *queries.BalanceView) *BalanceResponse {
	return &BalanceResponse{
		UserID:          v.UserID,
		TotalPoints:     v.TotalPoints,
		AvailablePoints: v.AvailablePoints,
		LifetimePoints:  v.LifetimePoints,
		Status:          v.Status,
	}
}

func FromHistoryEntryView(v *queries.HistoryEntryView) *HistoryEntryResponse {
	return &HistoryEntryResponse{
		ID:        v.ID,
		Points:    v.Points,
		Reason:    v.Reason,
		Source:    v.Source,
		OrderID:   v.OrderID,
		CreatedAt: v.CreatedAt,
	}
}

func FromBadgeView(v *queries.BadgeView) *BadgeResponse {
	return &BadgeResponse{
		Badge:     v.Badge,
		GrantedAt: v.GrantedAt,
	}
}

func FromReconcileResult(r *queries.ReconcileResult) *ReconcileResponse {
	return &ReconcileResponse{
		UserID:            r.UserID,
		StoredAvailable:   r.StoredAvailable,
		ComputedAvailable: r.ComputedAvailable,
		StoredLifetime:    r.StoredLifetime,
		ComputedLifetime:  r.ComputedLifetime,
		Drift:             r.Drift,
	}
}
