package usecase

import (
	"context"
	"time"

	"atelier/internal/domain/model"
	"atelier/internal/event"
	"atelier/internal/notification"
	"atelier/internal/payment"
	repo "atelier/internal/repository"

	"github.com/stretchr/testify/mock"
)

// リポジトリのモック群。トランザクション境界の検証のため、
// txManagerMockは同じモック一式をTxReposとして渡す。

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) FindByIDWithRelations(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *productRepoMock) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *productRepoMock) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	return m.Called(ctx, productID, urls).Error(0)
}

func (m *productRepoMock) SetRating(ctx context.Context, productID int64, rating float64, reviewCount int64) error {
	return m.Called(ctx, productID, rating, reviewCount).Error(0)
}

type reviewRepoMock struct{ mock.Mock }

func (m *reviewRepoMock) Create(ctx context.Context, review model.Review) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}

func (m *reviewRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *reviewRepoMock) AverageByProductID(ctx context.Context, productID int64) (float64, int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type couponRepoMock struct{ mock.Mock }

func (m *couponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.Coupon), args.Error(1)
}

func (m *couponRepoMock) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Coupon), args.Error(1)
}

func (m *couponRepoMock) List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *couponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Coupon), args.Error(1)
}

func (m *couponRepoMock) Update(ctx context.Context, c model.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *couponRepoMock) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *couponRepoMock) Redeem(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) FindByShortCode(ctx context.Context, code string) (model.Order, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, trackingLink string) error {
	return m.Called(ctx, orderID, status, trackingLink).Error(0)
}

func (m *orderRepoMock) Delete(ctx context.Context, orderID int64) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *orderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *orderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

type inventoryRepoMock struct{ mock.Mock }

func (m *inventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	return m.Called(ctx, productID, newStock).Error(0)
}

func (m *inventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *inventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *inventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	return m.Called(ctx, adjustment).Error(0)
}

type paymentRepoMock struct{ mock.Mock }

func (m *paymentRepoMock) Create(ctx context.Context, p model.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *paymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (m *paymentRepoMock) List(ctx context.Context, f repo.PaymentListFilter) ([]model.Payment, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Payment), args.Get(1).(int64), args.Error(2)
}

type webhookEventRepoMock struct{ mock.Mock }

func (m *webhookEventRepoMock) InsertIfAbsent(ctx context.Context, ev model.WebhookEvent) (bool, error) {
	args := m.Called(ctx, ev)
	return args.Bool(0), args.Error(1)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *auditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userRepoMock) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

func (m *userRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) UpdateRoleAndActive(ctx context.Context, userID int64, role model.Role, isActive bool) error {
	return m.Called(ctx, userID, role, isActive).Error(0)
}

// TxReposとして同じモック一式を渡すトランザクションマネージャ。
type txReposMock struct {
	orders        *orderRepoMock
	orderItems    *orderItemRepoMock
	products      *productRepoMock
	inventory     *inventoryRepoMock
	coupons       *couponRepoMock
	payments      *paymentRepoMock
	webhookEvents *webhookEventRepoMock
	reviews       *reviewRepoMock
}

func newTxReposMock() *txReposMock {
	return &txReposMock{
		orders:        new(orderRepoMock),
		orderItems:    new(orderItemRepoMock),
		products:      new(productRepoMock),
		inventory:     new(inventoryRepoMock),
		coupons:       new(couponRepoMock),
		payments:      new(paymentRepoMock),
		webhookEvents: new(webhookEventRepoMock),
		reviews:       new(reviewRepoMock),
	}
}

func (t *txReposMock) Orders() repo.OrderRepository               { return t.orders }
func (t *txReposMock) OrderItems() repo.OrderItemRepository       { return t.orderItems }
func (t *txReposMock) Products() repo.ProductRepository           { return t.products }
func (t *txReposMock) Inventory() repo.InventoryRepository        { return t.inventory }
func (t *txReposMock) Coupons() repo.CouponRepository             { return t.coupons }
func (t *txReposMock) Payments() repo.PaymentRepository           { return t.payments }
func (t *txReposMock) WebhookEvents() repo.WebhookEventRepository { return t.webhookEvents }
func (t *txReposMock) Reviews() repo.ReviewRepository             { return t.reviews }

type txManagerMock struct {
	repos *txReposMock
}

func (t *txManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

type sessionClientMock struct{ mock.Mock }

func (m *sessionClientMock) CreateCheckoutSession(ctx context.Context, p payment.SessionParams) (payment.Session, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(payment.Session), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) SendOrderConfirmation(ctx context.Context, c notification.OrderConfirmation) error {
	return m.Called(ctx, c).Error(0)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishOrderCreated(ctx context.Context, ev event.OrderCreated) error {
	return m.Called(ctx, ev).Error(0)
}
