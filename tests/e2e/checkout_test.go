//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CheckoutE2ETestSuite struct {
	SharedSuite
}

func TestCheckoutE2ETestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutE2ETestSuite))
}

func (s *CheckoutE2ETestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func (s *CheckoutE2ETestSuite) seedCoupon(code string, amountOffCents int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.DB.Exec(ctx,
		`INSERT INTO coupons (code, amount_off_cents, active) VALUES ($1, $2, true)`,
		code, amountOffCents)
	s.Require().NoError(err)
}

func (s *CheckoutE2ETestSuite) seedAccount(userID uuid.UUID, available, lifetime int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.DB.Exec(ctx,
		`INSERT INTO loyalty_accounts (user_id, total_points, available_points, lifetime_points, status)
		 VALUES ($1, $2, $3, $4, 'active')`,
		userID, lifetime, available, lifetime)
	s.Require().NoError(err)
}

func cartBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": "prod-1", "unit_price_cents": 100000, "quantity": 2},
		},
	}
}

func (s *CheckoutE2ETestSuite) TestCheckoutFlow() {
	s.Run("quote then confirm settles points and badges", func() {
		userID := uuid.New()
		token := issueToken(s.T(), s.Config, userID, "customer")
		s.seedCoupon("WELCOME20", 20000)

		body := cartBody()
		body["coupon_code"] = "WELCOME20"
		rec := s.request(http.MethodPost, "/api/checkout/quote", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var quote struct {
			Breakdown struct {
				SubtotalCents       int64 `json:"subtotalCents"`
				CouponDiscountCents int64 `json:"couponDiscountCents"`
				TaxCents            int64 `json:"taxCents"`
				ShippingCents       int64 `json:"shippingCents"`
				TotalCents          int64 `json:"totalCents"`
			} `json:"breakdown"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &quote))
		s.Equal(int64(200000), quote.Breakdown.SubtotalCents)
		s.Equal(int64(20000), quote.Breakdown.CouponDiscountCents)
		s.Equal(int64(27000), quote.Breakdown.TaxCents)
		s.Equal(int64(50000), quote.Breakdown.ShippingCents)
		s.Equal(int64(257000), quote.Breakdown.TotalCents)

		// A quote never consumes the coupon.
		rec = s.request(http.MethodPost, "/api/checkout/quote", token, body)
		s.Require().Equal(http.StatusOK, rec.Code)

		orderID := uuid.New()
		body["order_id"] = orderID.String()
		rec = s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var confirm struct {
			PointsAwarded int64    `json:"pointsAwarded"`
			NewBadges     []string `json:"newBadges"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &confirm))
		s.Equal(int64(25), confirm.PointsAwarded)
		s.Contains(confirm.NewBadges, "first_purchase")

		rec = s.request(http.MethodGet, "/api/loyalty/balance", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var balance struct {
			AvailablePoints int64 `json:"availablePoints"`
			LifetimePoints  int64 `json:"lifetimePoints"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &balance))
		s.Equal(int64(25), balance.AvailablePoints)
		s.Equal(int64(25), balance.LifetimePoints)
	})

	s.Run("confirm replay does not double-award", func() {
		userID := uuid.New()
		token := issueToken(s.T(), s.Config, userID, "customer")

		body := cartBody()
		body["order_id"] = uuid.New().String()

		rec := s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		rec = s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		rec = s.request(http.MethodGet, "/api/loyalty/balance", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var balance struct {
			LifetimePoints int64 `json:"lifetimePoints"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &balance))
		s.Equal(int64(28), balance.LifetimePoints)
	})

	s.Run("coupon cannot be redeemed twice by the same user", func() {
		userID := uuid.New()
		token := issueToken(s.T(), s.Config, userID, "customer")
		s.seedCoupon("ONETIME", 10000)

		body := cartBody()
		body["coupon_code"] = "ONETIME"
		body["order_id"] = uuid.New().String()
		rec := s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		body["order_id"] = uuid.New().String()
		rec = s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("points redemption reduces the balance and the total", func() {
		userID := uuid.New()
		token := issueToken(s.T(), s.Config, userID, "customer")
		s.seedAccount(userID, 5000, 5000)

		body := cartBody()
		body["use_points"] = true
		body["points_to_use"] = 2000
		body["order_id"] = uuid.New().String()
		rec := s.request(http.MethodPost, "/api/checkout/confirm", token, body)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var confirm struct {
			Breakdown struct {
				PointsDiscountCents int64 `json:"pointsDiscountCents"`
			} `json:"breakdown"`
			PointsRedeemed int64 `json:"pointsRedeemed"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &confirm))
		s.Equal(int64(20000), confirm.Breakdown.PointsDiscountCents)
		s.Equal(int64(2000), confirm.PointsRedeemed)
	})

	s.Run("unknown coupon is rejected", func() {
		token := issueToken(s.T(), s.Config, uuid.New(), "customer")

		body := cartBody()
		body["coupon_code"] = "NOPE"
		rec := s.request(http.MethodPost, "/api/checkout/quote", token, body)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("requests without a token are rejected", func() {
		rec := s.request(http.MethodPost, "/api/checkout/quote", "", cartBody())
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *CheckoutE2ETestSuite) TestAdminCoupons() {
	s.Run("admin can create and deactivate a coupon", func() {
		admin := issueToken(s.T(), s.Config, uuid.New(), "admin")

		rec := s.request(http.MethodPost, "/api/admin/coupons", admin, map[string]any{
			"code":             "spring15",
			"amount_off_cents": 15000,
			"active":           true,
		})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		var created struct {
			ID uuid.UUID `json:"id"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

		rec = s.request(http.MethodPatch, "/api/admin/coupons/"+created.ID.String(), admin, map[string]any{
			"active": false,
		})
		s.Equal(http.StatusNoContent, rec.Code)

		// The deactivated coupon no longer validates.
		customer := issueToken(s.T(), s.Config, uuid.New(), "customer")
		body := cartBody()
		body["coupon_code"] = "SPRING15"
		rec = s.request(http.MethodPost, "/api/checkout/quote", customer, body)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("customers cannot reach admin routes", func() {
		customer := issueToken(s.T(), s.Config, uuid.New(), "customer")

		rec := s.request(http.MethodPost, "/api/admin/coupons", customer, map[string]any{
			"code":             "NOPE10",
			"amount_off_cents": 1000,
		})
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
