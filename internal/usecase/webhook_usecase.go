package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/event"
	"atelier/internal/metrics"
	"atelier/internal/notification"
	"atelier/internal/payment"
	repo "atelier/internal/repository"
	"atelier/internal/shortcode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// 支払い済みイベントから注文を作る唯一の場所。
//
// 注文作成・明細・決済レコード・在庫減算・クーポン消し込み・イベントIDの
// 記録は1トランザクション。イベントIDのcheck-and-insertが先頭にあるので、
// 再配送は何もしないで受理できるし、途中で失敗したら丸ごと巻き戻って
// プロバイダの再送をそのまま受け直せる。
type WebhookUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	notifier  notification.Sender
	publisher event.Publisher

	secret      string
	currency    string
	shippingFee int64

	metrics *metrics.CheckoutMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewWebhookUsecase(
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	notifier notification.Sender,
	publisher event.Publisher,
	secret string,
	currency string,
	shippingFee int64,
	m *metrics.CheckoutMetrics,
	logger zerolog.Logger,
) *WebhookUsecase {
	return &WebhookUsecase{
		tx:          tx,
		auditRepo:   auditRepo,
		notifier:    notifier,
		publisher:   publisher,
		secret:      secret,
		currency:    currency,
		shippingFee: shippingFee,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

type WebhookResult struct {
	OrderID   int64
	ShortCode string
	//処理済みイベントの再配送（何もしていない）
	Duplicate bool
	//対象外イベント種別（何もしていない）
	Ignored bool
}

func (u *WebhookUsecase) HandleEvent(ctx context.Context, rawBody []byte, sigHeader string) (WebhookResult, error) {
	//署名検証が最初。ここを通らないものは一切信用しない。
	if err := payment.VerifySignature(rawBody, sigHeader, u.secret, u.now()); err != nil {
		return WebhookResult{}, NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	ev, err := payment.ParseEvent(rawBody)
	if err != nil {
		return WebhookResult{}, NewHTTPError(http.StatusBadRequest, "malformed event")
	}

	//セッション完了以外は受理して無視
	if ev.Type != payment.EventCheckoutSessionCompleted {
		return WebhookResult{Ignored: true}, nil
	}

	session := ev.Data.Object

	userID, err := strconv.ParseInt(session.Metadata["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		return WebhookResult{}, NewHTTPError(http.StatusBadRequest, "malformed metadata")
	}
	metaItems, err := payment.DecodeMetaItems(session.Metadata["items"])
	if err != nil || len(metaItems) == 0 {
		return WebhookResult{}, NewHTTPError(http.StatusBadRequest, "malformed metadata")
	}

	couponCode := session.Metadata["coupon_code"]
	var discount int64
	if v := session.Metadata["discount_amount"]; v != "" {
		if discount, err = strconv.ParseInt(v, 10, 64); err != nil || discount < 0 {
			return WebhookResult{}, NewHTTPError(http.StatusBadRequest, "malformed metadata")
		}
	}

	//プロバイダ申告額を主通貨単位へ
	providerTotal := session.AmountTotal / MinorUnitFactor

	var result WebhookResult
	var confirmation notification.OrderConfirmation

	txErr := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		inserted, err := r.WebhookEvents().InsertIfAbsent(ctx, model.WebhookEvent{
			EventID:       ev.ID,
			EventType:     ev.Type,
			TransactionID: session.ID,
			ProcessedAt:   u.now(),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !inserted {
			//再配送。作成済みの注文には触らない。
			result.Duplicate = true
			return nil
		}

		//明細は現在の商品状態のスナップショット
		orderItems := make([]model.OrderItem, 0, len(metaItems))
		var itemsTotal int64
		now := u.now()

		for _, mi := range metaItems {
			if mi.Qty <= 0 {
				return NewHTTPError(http.StatusBadRequest, "malformed metadata")
			}
			p, err := r.Products().FindByID(ctx, mi.ID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "unknown product in paid session")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			imageURL := ""
			if len(p.Images) > 0 {
				imageURL = p.Images[0].URL
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				ImageURLSnapshot:    imageURL,
				Quantity:            mi.Qty,
				CreatedAt:           now,
			})
			itemsTotal += p.Price * mi.Qty
		}

		code, err := shortcode.New()
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		//請求額はプロバイダ申告額を保存する（実際に請求された額）。
		//明細からの再計算と食い違ったら監査対象として残す。
		expected := itemsTotal + u.shippingFee - discount
		if expected != providerTotal {
			u.metrics.AmountMismatches.Inc()
			u.logger.Warn().
				Str("event_id", ev.ID).
				Int64("expected", expected).
				Int64("reported", providerTotal).
				Msg("provider amount does not match recomputed total")
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			ShortCode:      code,
			UserID:         userID,
			CustomerName:   session.CustomerDetails.Name,
			CustomerEmail:  session.CustomerDetails.Email,
			Status:         model.OrderStatusPending,
			PaymentStatus:  model.PaymentStatusPaid,
			TransactionID:  session.ID,
			TotalPrice:     providerTotal,
			DiscountAmount: discount,
			ShippingFee:    u.shippingFee,
			CouponCode:     couponCode,
			ShipLine1:      session.ShippingDetails.Address.Line1,
			ShipCity:       session.ShippingDetails.Address.City,
			ShipPostalCode: session.ShippingDetails.Address.PostalCode,
			ShipCountry:    session.ShippingDetails.Address.Country,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Payments().Create(ctx, model.Payment{
			ID:            uuid.NewString(),
			UserID:        userID,
			OrderID:       orderID,
			Amount:        providerTotal,
			Currency:      u.currency,
			Status:        model.PaymentRecordSucceeded,
			Method:        session.PaymentMethod,
			TransactionID: session.ID,
			CreatedAt:     now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫減算。支払いは済んでいるので足りなくても注文は成立させ、
		//在庫は0で止めて売り越しとして記録する。
		for _, it := range orderItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				u.metrics.Oversells.Inc()
				u.logger.Warn().
					Int64("product_id", it.ProductID).
					Int64("quantity", it.Quantity).
					Int64("order_id", orderID).
					Msg("paid order exceeded available stock")

				if err := r.Inventory().SetStock(ctx, it.ProductID, 0); err != nil && err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
					ProductID:   it.ProductID,
					ActorUserID: 0,
					Delta:       -it.Quantity,
					Reason:      fmt.Sprintf("oversold on order %d", orderID),
					CreatedAt:   now,
				}); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		//クーポンの消し込み。上限との競合で増やせなくても注文は通す。
		if couponCode != "" {
			ok, err := r.Coupons().Redeem(ctx, couponCode)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				u.logger.Warn().
					Str("coupon_code", couponCode).
					Int64("order_id", orderID).
					Msg("coupon could not be redeemed at order completion")
			}
		}

		//金額不一致は監査ログにも残す（手動確認用）
		if expected != providerTotal {
			if err := u.auditRepo.Create(ctx, model.AuditLog{
				ActorUserID:  0,
				Action:       model.AuditActionPaymentAnomaly,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   fmt.Sprintf(`{"expected_total":%d}`, expected),
				AfterJSON:    fmt.Sprintf(`{"reported_total":%d}`, providerTotal),
				CreatedAt:    now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		result.OrderID = orderID
		result.ShortCode = code

		items := make([]notification.ConfirmationItem, 0, len(orderItems))
		for _, it := range orderItems {
			items = append(items, notification.ConfirmationItem{
				Name:     it.ProductNameSnapshot,
				Quantity: it.Quantity,
				Price:    it.UnitPriceSnapshot,
			})
		}
		confirmation = notification.OrderConfirmation{
			To:        session.CustomerDetails.Email,
			Name:      session.CustomerDetails.Name,
			ShortCode: code,
			Total:     providerTotal,
			Currency:  u.currency,
			Items:     items,
		}
		return nil
	})

	if txErr != nil {
		//イベントIDは巻き戻っているので、プロバイダの再送で安全にやり直せる
		return WebhookResult{}, txErr
	}

	if result.Duplicate {
		u.metrics.DuplicateWebhooks.Inc()
		u.logger.Info().Str("event_id", ev.ID).Msg("duplicate webhook delivery ignored")
		return result, nil
	}

	u.metrics.OrdersCreated.Inc()
	u.logger.Info().
		Int64("order_id", result.OrderID).
		Str("short_code", result.ShortCode).
		Str("transaction_id", session.ID).
		Msg("order created from payment webhook")

	//通知はベストエフォート。失敗しても注文は確定済み。
	if confirmation.To != "" {
		if err := u.notifier.SendOrderConfirmation(ctx, confirmation); err != nil {
			u.metrics.NotifyFailures.Inc()
			u.logger.Error().Err(err).Int64("order_id", result.OrderID).Msg("confirmation email failed")
		}
	}

	if u.publisher != nil {
		if err := u.publisher.PublishOrderCreated(ctx, event.OrderCreated{
			OrderID:       result.OrderID,
			ShortCode:     result.ShortCode,
			UserID:        userID,
			CustomerEmail: confirmation.To,
			TotalPrice:    confirmation.Total,
			ItemCount:     len(confirmation.Items),
			CreatedAt:     u.now(),
		}); err != nil {
			u.logger.Error().Err(err).Int64("order_id", result.OrderID).Msg("order event publish failed")
		}
	}

	return result, nil
}
