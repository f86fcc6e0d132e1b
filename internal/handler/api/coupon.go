package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "github.com/Wilfix07/ecom-sub000/internal/handler/dto/request"
	resdto "github.com/Wilfix07/ecom-sub000/internal/handler/dto/response"
	"github.com/Wilfix07/ecom-sub000/internal/handler/middleware"
	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/commands"
	"github.com/Wilfix07/ecom-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// Validate checks applicability only; nothing is recorded until the order is
// confirmed.
func (h *CouponHandler) Validate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ValidateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	snap, err := h.couponCommands.Validate(c.Request.Context(), req.GetCode(), userID)
	if err != nil {
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
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid coupon code format",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponSnapshot(snap))
}

func (h *CouponHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	coupons, err := h.couponQueries.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.CouponResponse, len(coupons))
	for i, v := range coupons {
		response[i] = resdto.FromCouponView(v)
	}

	c.JSON(http.StatusOK, response)
}

func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.couponCommands.Create(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDuplicateCouponCode):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Coupon code already exists",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid coupon definition",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateCouponResponse{ID: id})
}

func (h *CouponHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID format",
		})
		return
	}

	var req reqdto.SetCouponActiveRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.couponCommands.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		switch {
		case errors.Is(err, errs.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Coupon not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
