package usecase

import (
	"context"
	"net/http"
	"testing"

	"atelier/internal/domain/model"
	"atelier/internal/metrics"
	"atelier/internal/payment"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutUsecaseForTest(sessions *sessionClientMock, couponRepo *couponRepoMock) *CheckoutUsecase {
	coupons := NewCouponUsecase(couponRepo)
	coupons.now = fixedNow
	return NewCheckoutUsecase(
		sessions,
		coupons,
		CheckoutConfig{
			Currency:          "jpy",
			SuccessURL:        "https://shop.example.com/success",
			CancelURL:         "https://shop.example.com/cancel",
			ShippingCountries: []string{"JP"},
		},
		metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	uc := newCheckoutUsecaseForTest(new(sessionClientMock), new(couponRepoMock))

	_, err := uc.StartCheckout(context.Background(), 1, "u@example.com", StartCheckoutInput{})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestStartCheckout_MinorUnitsAndMetadata(t *testing.T) {
	sessions := new(sessionClientMock)
	var got payment.SessionParams
	sessions.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.SessionParams) bool {
		got = p
		return true
	})).Return(payment.Session{ID: "cs_123", URL: "https://pay.example.com/cs_123"}, nil)

	uc := newCheckoutUsecaseForTest(sessions, new(couponRepoMock))

	out, err := uc.StartCheckout(context.Background(), 7, "u@example.com", StartCheckoutInput{
		Items: []CheckoutItem{
			{ID: 10, Name: "湯呑", Price: 1500, Quantity: 2},
			{ID: 11, Name: "豆皿", Price: 800, Quantity: 1},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "cs_123", out.ID)
	assert.Equal(t, "https://pay.example.com/cs_123", out.URL)

	//1500円 → 150000（最小通貨単位）
	assert.Len(t, got.LineItems, 2)
	assert.Equal(t, int64(150000), got.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), got.LineItems[0].Quantity)
	assert.Equal(t, int64(80000), got.LineItems[1].UnitAmount)

	assert.Equal(t, "7", got.Metadata["user_id"])
	assert.Equal(t, `[{"id":10,"qty":2},{"id":11,"qty":1}]`, got.Metadata["items"])
	assert.NotContains(t, got.Metadata, "coupon_code")
	assert.Equal(t, "u@example.com", got.CustomerEmail)
}

func TestStartCheckout_CouponApplied(t *testing.T) {
	couponRepo := new(couponRepoMock)
	couponRepo.On("FindByCode", mock.Anything, "SUMMER10").Return(validCoupon(), nil)

	sessions := new(sessionClientMock)
	var got payment.SessionParams
	sessions.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.SessionParams) bool {
		got = p
		return true
	})).Return(payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil)

	uc := newCheckoutUsecaseForTest(sessions, couponRepo)

	_, err := uc.StartCheckout(context.Background(), 1, "u@example.com", StartCheckoutInput{
		Items:      []CheckoutItem{{ID: 1, Name: "花瓶", Price: 5000, Quantity: 1}},
		CouponCode: "summer10",
	})

	assert.NoError(t, err)
	assert.Equal(t, "SUMMER10", got.Metadata["coupon_code"])
	assert.Equal(t, "500", got.Metadata["discount_amount"])

	//割引は負の明細行
	assert.Len(t, got.LineItems, 2)
	assert.Equal(t, int64(-50000), got.LineItems[1].UnitAmount)
}

func TestStartCheckout_InvalidCouponProceedsWithoutDiscount(t *testing.T) {
	c := validCoupon()
	c.IsActive = false
	couponRepo := new(couponRepoMock)
	couponRepo.On("FindByCode", mock.Anything, "SUMMER10").Return(c, nil)

	sessions := new(sessionClientMock)
	var got payment.SessionParams
	sessions.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.SessionParams) bool {
		got = p
		return true
	})).Return(payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil)

	uc := newCheckoutUsecaseForTest(sessions, couponRepo)

	_, err := uc.StartCheckout(context.Background(), 1, "u@example.com", StartCheckoutInput{
		Items:      []CheckoutItem{{ID: 1, Name: "花瓶", Price: 5000, Quantity: 1}},
		CouponCode: "SUMMER10",
	})

	//クーポンが無効でも購入自体は通す
	assert.NoError(t, err)
	assert.NotContains(t, got.Metadata, "coupon_code")
	assert.Len(t, got.LineItems, 1)
}

func TestStartCheckout_FixedDiscountClampedToSubtotal(t *testing.T) {
	c := validCoupon()
	c.Code = "FLAT9000"
	c.DiscountType = model.DiscountTypeFixed
	c.DiscountValue = 9000
	c.MinOrderAmount = 0
	couponRepo := new(couponRepoMock)
	couponRepo.On("FindByCode", mock.Anything, "FLAT9000").Return(c, nil)

	sessions := new(sessionClientMock)
	var got payment.SessionParams
	sessions.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.SessionParams) bool {
		got = p
		return true
	})).Return(payment.Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil)

	uc := newCheckoutUsecaseForTest(sessions, couponRepo)

	_, err := uc.StartCheckout(context.Background(), 1, "u@example.com", StartCheckoutInput{
		Items:      []CheckoutItem{{ID: 1, Name: "花瓶", Price: 5000, Quantity: 1}},
		CouponCode: "FLAT9000",
	})

	assert.NoError(t, err)
	//小計5000で頭打ち
	assert.Equal(t, "5000", got.Metadata["discount_amount"])
	assert.Equal(t, int64(-500000), got.LineItems[1].UnitAmount)
}

func TestStartCheckout_ProviderError(t *testing.T) {
	sessions := new(sessionClientMock)
	sessions.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(payment.Session{}, &payment.ProviderError{StatusCode: 402, Code: "card_declined", Message: "card was declined"})

	uc := newCheckoutUsecaseForTest(sessions, new(couponRepoMock))

	_, err := uc.StartCheckout(context.Background(), 1, "u@example.com", StartCheckoutInput{
		Items: []CheckoutItem{{ID: 1, Name: "花瓶", Price: 5000, Quantity: 1}},
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Equal(t, "card was declined", he.Message)
}

func TestStartCheckout_Unauthenticated(t *testing.T) {
	uc := newCheckoutUsecaseForTest(new(sessionClientMock), new(couponRepoMock))

	_, err := uc.StartCheckout(context.Background(), 0, "", StartCheckoutInput{
		Items: []CheckoutItem{{ID: 1, Name: "花瓶", Price: 5000, Quantity: 1}},
	})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}
