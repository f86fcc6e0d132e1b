package api

import (
	"errors"
	"net/http"

	reqdto "github.com/Wilfix07/ecom-sub000/internal/handler/dto/request"
	resdto "github.com/Wilfix07/ecom-sub000/internal/handler/dto/response"
	"github.com/Wilfix07/ecom-sub000/internal/handler/middleware"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout commands.CheckoutCommands
}

func NewCheckoutHandler(checkout commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
	}
}

func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.QuoteRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkout.Quote(c.Request.Context(), commands.QuoteParams{
		UserID:     userID,
		Cart:       req.ToCart(),
		CouponCode: req.GetCouponCode(),
		Redemption: req.ToRedemption(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteResult(result))
}

func (h *CheckoutHandler) Confirm(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ConfirmRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkout.ConfirmOrder(c.Request.Context(), commands.ConfirmOrderParams{
		OrderID:    req.OrderID,
		UserID:     userID,
		Cart:       req.ToCart(),
		CouponCode: req.GetCouponCode(),
		Redemption: req.ToRedemption(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmResult(result))
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, errs.ErrCouponInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon is not active",
		})
	case errors.Is(err, errs.ErrCouponExpired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon has expired",
		})
	case errors.Is(err, errs.ErrCouponUsageLimitReached):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Coupon usage limit reached",
		})
	case errors.Is(err, errs.ErrCouponAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Coupon already redeemed by this user",
		})
	case errors.Is(err, errs.ErrInsufficientPoints):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Insufficient loyalty points",
		})
	case errors.Is(err, errs.ErrLoyaltyAccountLocked):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Loyalty account is not active",
		})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart or request parameters",
		})
	case errors.Is(err, errs.ErrConcurrencyConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Order settlement is contended, retry later",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
