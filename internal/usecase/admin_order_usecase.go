package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/invoice"
	repo "atelier/internal/repository"

	"github.com/rs/zerolog"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
	itemRepo  repo.OrderItemRepository
	auditRepo repo.AuditLogRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	itemRepo repo.OrderItemRepository,
	auditRepo repo.AuditLogRepository,
	logger zerolog.Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:        tx,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		logger:    logger,
		now:       time.Now,
	}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (OrderListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" {
		switch model.OrderStatus(in.Status) {
		case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped,
			model.OrderStatusDelivered, model.OrderStatusCanceled:
		default:
			return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := u.itemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		views = append(views, toOrderView(o, items))
	}
	return OrderListOutput{Items: views, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AdminOrderUsecase) GetDetail(ctx context.Context, orderID int64) (OrderView, error) {
	if orderID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderView{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	items, err := u.itemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderView(o, items), nil
}

type UpdateOrderStatusInput struct {
	Status       string
	TrackingLink string
}

// UpdateStatus はステータスを任意の値へ更新できる（遷移の制限はしない。
// 返品の取り下げやオペミスの差し戻しがあるため）。
// CANCELEDに入るときだけ在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorUserID int64, orderID int64, in UpdateOrderStatusInput) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next := model.OrderStatus(in.Status)
	switch next {
	case model.OrderStatusPending, model.OrderStatusProcessing, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCanceled:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next, in.TrackingLink); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//キャンセルに入った瞬間に1回だけ在庫を戻す。
		//再キャンセル（CANCELED→CANCELED）は戻さない。
		if next == model.OrderStatusCanceled && o.Status != model.OrderStatusCanceled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		before, _ := json.Marshal(map[string]string{"status": string(o.Status), "tracking_link": o.TrackingLink})
		after, _ := json.Marshal(map[string]string{"status": string(next), "tracking_link": in.TrackingLink})
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
			CreatedAt:    u.now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		u.logger.Info().
			Int64("order_id", orderID).
			Str("from", string(o.Status)).
			Str("to", string(next)).
			Int64("actor_user_id", actorUserID).
			Msg("order status updated")
		return nil
	})
}

// RenderInvoice は任意の注文のPDF請求書を返す（所有チェックなし）。
func (u *AdminOrderUsecase) RenderInvoice(ctx context.Context, orderID int64) ([]byte, string, error) {
	if orderID <= 0 {
		return nil, "", NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return nil, "", NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.itemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pdf, err := invoice.Render(o, items)
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "invoice generation failed")
	}
	return pdf, "invoice-" + o.ShortCode + ".pdf", nil
}

// Delete は物理削除。会計記録は監査ログと決済レコードに残る。
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorUserID int64, orderID int64) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orderRepo.Delete(ctx, orderID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before, _ := json.Marshal(o)
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionDeleteOrder,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(before),
		AfterJSON:    "",
		CreatedAt:    u.now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info().Int64("order_id", orderID).Int64("actor_user_id", actorUserID).Msg("order deleted")
	return nil
}
