package usecase

import (
	"context"
	"net/http"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/invoice"
	repo "atelier/internal/repository"
)

type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

func NewOrderUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

type OrderItemView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Quantity  int64  `json:"quantity"`
}

type OrderView struct {
	ID             int64           `json:"id"`
	ShortCode      string          `json:"short_code"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	TotalPrice     int64           `json:"total_price"`
	DiscountAmount int64           `json:"discount_amount"`
	ShippingFee    int64           `json:"shipping_fee"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	TrackingLink   string          `json:"tracking_link,omitempty"`
	ShipLine1      string          `json:"ship_line1"`
	ShipCity       string          `json:"ship_city"`
	ShipPostalCode string          `json:"ship_postal_code"`
	ShipCountry    string          `json:"ship_country"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []OrderItemView `json:"items"`
}

func toOrderView(o model.Order, items []model.OrderItem) OrderView {
	views := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, OrderItemView{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Image:     it.ImageURLSnapshot,
			Quantity:  it.Quantity,
		})
	}
	return OrderView{
		ID:             o.ID,
		ShortCode:      o.ShortCode,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
		ShippingFee:    o.ShippingFee,
		CouponCode:     o.CouponCode,
		TrackingLink:   o.TrackingLink,
		ShipLine1:      o.ShipLine1,
		ShipCity:       o.ShipCity,
		ShipPostalCode: o.ShipPostalCode,
		ShipCountry:    o.ShipCountry,
		CreatedAt:      o.CreatedAt,
		Items:          views,
	}
}

type OrderListOutput struct {
	Items []OrderView `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := u.orderRepo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return OrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		views = append(views, toOrderView(o, items))
	}

	return OrderListOutput{Items: views, Total: total, Page: page, Limit: limit}, nil
}

// 他人の注文IDを当てられても404で返す（403だと存在が漏れる）。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderView, error) {
	if userID <= 0 {
		return OrderView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
	if o.UserID != userID {
		return OrderView{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderView(o, items), nil
}

// 公開トラッキング用の絞った射影。住所や金額の明細は出さない。
type TrackingView struct {
	ShortCode string         `json:"short_code"`
	Status    string         `json:"status"`
	ShipCity  string         `json:"ship_city"`
	Total     int64          `json:"total"`
	Items     []TrackingItem `json:"items"`
}

type TrackingItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// TrackByCode は認証なしで呼べる。short codeは推測困難な乱数なので、
// コードを知っている人＝購入者本人とみなす。
func (u *OrderUsecase) TrackByCode(ctx context.Context, code string) (TrackingView, error) {
	if code == "" {
		return TrackingView{}, NewHTTPError(http.StatusBadRequest, "code required")
	}

	o, err := u.orderRepo.FindByShortCode(ctx, code)
	if err == repo.ErrNotFound {
		return TrackingView{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return TrackingView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return TrackingView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	tv := TrackingView{
		ShortCode: o.ShortCode,
		Status:    string(o.Status),
		ShipCity:  o.ShipCity,
		Total:     o.TotalPrice,
		Items:     make([]TrackingItem, 0, len(items)),
	}
	for _, it := range items {
		tv.Items = append(tv.Items, TrackingItem{Name: it.ProductNameSnapshot, Quantity: it.Quantity})
	}
	return tv, nil
}

// RenderInvoice は本人の注文のPDF請求書を返す。
func (u *OrderUsecase) RenderInvoice(ctx context.Context, userID int64, orderID int64) ([]byte, string, error) {
	if userID <= 0 {
		return nil, "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
	if o.UserID != userID {
		return nil, "", NewHTTPError(http.StatusNotFound, "order not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pdf, err := invoice.Render(o, items)
	if err != nil {
		return nil, "", NewHTTPError(http.StatusInternalServerError, "invoice generation failed")
	}
	return pdf, "invoice-" + o.ShortCode + ".pdf", nil
}
