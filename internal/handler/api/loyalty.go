package api

import (
	"net/http"
	"strconv"

	resdto "github.com/Wilfix07/ecom-sub000/internal/handler/dto/response"
	"github.com/Wilfix07/ecom-sub000/internal/handler/middleware"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	loyaltyQueries queries.LoyaltyQueries
}

func NewLoyaltyHandler(loyaltyQueries queries.LoyaltyQueries) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyQueries: loyaltyQueries,
	}
}

func (h *LoyaltyHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.loyaltyQueries.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}

func (h *LoyaltyHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.loyaltyQueries.GetHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = resdto.FromHistoryEntryView(entry)
	}

	c.JSON(http.StatusOK, response)
}

func (h *LoyaltyHandler) GetBadges(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	badges, err := h.loyaltyQueries.GetBadges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.BadgeResponse, len(badges))
	for i, badge := range badges {
		response[i] = resdto.FromBadgeView(badge)
	}

	c.JSON(http.StatusOK, response)
}

// Reconcile recomputes the balance from the ledger history and reports any
// drift against the stored projection.
func (h *LoyaltyHandler) Reconcile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	result, err := h.loyaltyQueries.Reconcile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReconcileResult(result))
}
