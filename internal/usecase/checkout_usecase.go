package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"atelier/internal/metrics"
	"atelier/internal/payment"

	"github.com/rs/zerolog"
)

// プロバイダ呼び出しの差し替え口（テストではモック）。
type PaymentSessionClient interface {
	CreateCheckoutSession(ctx context.Context, p payment.SessionParams) (payment.Session, error)
}

// 最小通貨単位への換算係数（1円=100）。webhook側の逆変換と対で使う。
const MinorUnitFactor = 100

type CheckoutConfig struct {
	Currency          string
	SuccessURL        string
	CancelURL         string
	ShippingCountries []string
	ShippingFee       int64
}

type CheckoutUsecase struct {
	sessions PaymentSessionClient
	coupons  *CouponUsecase
	cfg      CheckoutConfig
	metrics  *metrics.CheckoutMetrics
	logger   zerolog.Logger
}

func NewCheckoutUsecase(
	sessions PaymentSessionClient,
	coupons *CouponUsecase,
	cfg CheckoutConfig,
	m *metrics.CheckoutMetrics,
	logger zerolog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions: sessions,
		coupons:  coupons,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// クライアント保持カートの1行。価格はカート追加時点の表示価格で、
// 注文の確定価格はwebhook側で商品から取り直す。
type CheckoutItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
	Image    string `json:"image"`
}

type StartCheckoutInput struct {
	Items      []CheckoutItem
	CouponCode string
}

type StartCheckoutOutput struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (u *CheckoutUsecase) StartCheckout(ctx context.Context, userID int64, buyerEmail string, in StartCheckoutInput) (StartCheckoutOutput, error) {
	if userID <= 0 {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	var subtotal int64
	for _, it := range in.Items {
		if it.ID <= 0 {
			return StartCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
		}
		if it.Price <= 0 {
			return StartCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item price")
		}
		if it.Quantity <= 0 {
			return StartCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item quantity")
		}
		subtotal += it.Price * it.Quantity
	}

	//クーポンは評価失敗でも購入を止めない（支払時点で失効していても
	//割引0として通す）。理由はログにだけ残す。
	var discount int64
	couponCode := strings.ToUpper(strings.TrimSpace(in.CouponCode))
	if couponCode != "" {
		ev, err := u.coupons.Evaluate(ctx, couponCode, subtotal)
		if err != nil {
			u.logger.Warn().
				Str("coupon_code", couponCode).
				Int64("user_id", userID).
				Err(err).
				Msg("coupon rejected at checkout, proceeding without discount")
			couponCode = ""
		} else {
			discount = ev.DiscountAmount
		}
	}

	//固定額クーポンが小計を超えることがある。マイナス合計のセッションは
	//作れないので、ここでは小計で頭打ちにする。
	if discount > subtotal {
		discount = subtotal
	}

	lineItems := make([]payment.LineItem, 0, len(in.Items)+1)
	for _, it := range in.Items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       it.Name,
			UnitAmount: it.Price * MinorUnitFactor,
			Quantity:   it.Quantity,
			ImageURL:   it.Image,
		})
	}
	if u.cfg.ShippingFee > 0 {
		lineItems = append(lineItems, payment.LineItem{
			Name:       "Shipping",
			UnitAmount: u.cfg.ShippingFee * MinorUnitFactor,
			Quantity:   1,
		})
	}
	if discount > 0 {
		lineItems = append(lineItems, payment.LineItem{
			Name:       "Discount (" + couponCode + ")",
			UnitAmount: -discount * MinorUnitFactor,
			Quantity:   1,
		})
	}

	//Metadataが注文の意図をwebhookまで運ぶ唯一の経路。
	metaItems := make([]payment.MetaItem, 0, len(in.Items))
	for _, it := range in.Items {
		metaItems = append(metaItems, payment.MetaItem{ID: it.ID, Qty: it.Quantity})
	}
	encoded, err := payment.EncodeMetaItems(metaItems)
	if err != nil {
		return StartCheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	meta := map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
		"items":   encoded,
	}
	if couponCode != "" {
		meta["coupon_code"] = couponCode
		meta["discount_amount"] = strconv.FormatInt(discount, 10)
	}

	session, err := u.sessions.CreateCheckoutSession(ctx, payment.SessionParams{
		LineItems:         lineItems,
		Currency:          u.cfg.Currency,
		CustomerEmail:     buyerEmail,
		SuccessURL:        u.cfg.SuccessURL,
		CancelURL:         u.cfg.CancelURL,
		ShippingCountries: u.cfg.ShippingCountries,
		Metadata:          meta,
	})
	if err != nil {
		u.metrics.CheckoutSessions.WithLabelValues("error").Inc()
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("checkout session creation failed")

		//provider由来の失敗は502で理由ごと返す
		var pe *payment.ProviderError
		if errors.As(err, &pe) {
			return StartCheckoutOutput{}, NewHTTPError(http.StatusBadGateway, pe.Message)
		}
		return StartCheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment provider unavailable")
	}

	u.metrics.CheckoutSessions.WithLabelValues("ok").Inc()
	u.logger.Info().
		Str("session_id", session.ID).
		Int64("user_id", userID).
		Int64("subtotal", subtotal).
		Int64("discount", discount).
		Msg("checkout session created")

	return StartCheckoutOutput{ID: session.ID, URL: session.URL}, nil
}
