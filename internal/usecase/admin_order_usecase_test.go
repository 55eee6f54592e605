package usecase

import (
	"context"
	"net/http"
	"testing"

	"atelier/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderEnv() (*AdminOrderUsecase, *txReposMock, *auditRepoMock) {
	repos := newTxReposMock()
	auditRepo := new(auditRepoMock)
	uc := NewAdminOrderUsecase(&txManagerMock{repos: repos}, repos.orders, repos.orderItems, auditRepo, zerolog.Nop())
	uc.now = fixedNow
	return uc, repos, auditRepo
}

func TestAdminUpdateStatus_InvalidStatus(t *testing.T) {
	uc, _, _ := newAdminOrderEnv()

	err := uc.UpdateStatus(context.Background(), 1, 42, UpdateOrderStatusInput{Status: "BOGUS"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestAdminUpdateStatus_CancelRestoresStock(t *testing.T) {
	uc, repos, auditRepo := newAdminOrderEnv()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusPending,
	}, nil)
	repos.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusCanceled, "").Return(nil)
	repos.orderItems.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}, nil)
	repos.inventory.On("IncreaseStock", ctx, int64(10), int64(2)).Return(nil)
	repos.inventory.On("IncreaseStock", ctx, int64(11), int64(1)).Return(nil)
	auditRepo.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ActorUserID == 5
	})).Return(nil)

	err := uc.UpdateStatus(ctx, 5, 42, UpdateOrderStatusInput{Status: "CANCELED"})

	assert.NoError(t, err)
	repos.inventory.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestAdminUpdateStatus_RecancelDoesNotRestoreTwice(t *testing.T) {
	uc, repos, auditRepo := newAdminOrderEnv()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusCanceled,
	}, nil)
	repos.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusCanceled, "").Return(nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(nil)

	err := uc.UpdateStatus(ctx, 5, 42, UpdateOrderStatusInput{Status: "CANCELED"})

	assert.NoError(t, err)
	repos.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_ShippedWithTrackingLink(t *testing.T) {
	uc, repos, auditRepo := newAdminOrderEnv()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusProcessing,
	}, nil)
	repos.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusShipped, "https://track.example.com/123").Return(nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(nil)

	err := uc.UpdateStatus(ctx, 5, 42, UpdateOrderStatusInput{
		Status:       "SHIPPED",
		TrackingLink: "https://track.example.com/123",
	})

	assert.NoError(t, err)
	repos.orders.AssertExpectations(t)
	repos.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminDelete_WritesAuditLog(t *testing.T) {
	uc, repos, auditRepo := newAdminOrderEnv()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, ShortCode: "ABCDEFGHJK"}, nil)
	repos.orders.On("Delete", ctx, int64(42)).Return(nil)
	auditRepo.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteOrder && l.ResourceID == 42 && l.BeforeJSON != ""
	})).Return(nil)

	err := uc.Delete(ctx, 5, 42)

	assert.NoError(t, err)
	auditRepo.AssertExpectations(t)
}
