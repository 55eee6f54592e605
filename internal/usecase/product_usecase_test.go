package usecase

import (
	"context"
	"net/http"
	"testing"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductEnv() (*ProductUsecase, *txReposMock, *productRepoMock, *inventoryRepoMock, *auditRepoMock) {
	repos := newTxReposMock()
	productRepo := new(productRepoMock)
	inventoryRepo := new(inventoryRepoMock)
	auditRepo := new(auditRepoMock)
	uc := NewProductUsecase(&txManagerMock{repos: repos}, productRepo, repos.reviews, inventoryRepo, auditRepo)
	return uc, repos, productRepo, inventoryRepo, auditRepo
}

func TestGetProductDetail_InactiveIs404(t *testing.T) {
	uc, _, productRepo, _, _ := newProductEnv()
	ctx := context.Background()

	productRepo.On("FindByIDWithRelations", ctx, int64(10)).Return(model.Product{
		ID: 10, Name: "湯呑", IsActive: false,
	}, nil)

	_, err := uc.GetProductDetail(ctx, 10)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestGetProductDetail_SoldOutFlag(t *testing.T) {
	uc, _, productRepo, _, _ := newProductEnv()
	ctx := context.Background()

	productRepo.On("FindByIDWithRelations", ctx, int64(10)).Return(model.Product{
		ID: 10, Name: "湯呑", Stock: 0, IsActive: true,
		Images: []model.ProductImage{{URL: "https://img.example.com/10.jpg"}},
	}, nil)

	view, err := uc.GetProductDetail(ctx, 10)

	assert.NoError(t, err)
	assert.True(t, view.IsSoldOut)
	assert.Equal(t, []string{"https://img.example.com/10.jpg"}, view.Images)
}

func TestAddReview_RecomputesRating(t *testing.T) {
	uc, repos, _, _, _ := newProductEnv()
	ctx := context.Background()

	repos.products.On("FindByID", ctx, int64(10)).Return(model.Product{ID: 10, IsActive: true}, nil)
	repos.reviews.On("Create", ctx, mock.MatchedBy(func(r model.Review) bool {
		return r.ProductID == 10 && r.UserID == 7 && r.Rating == 4
	})).Return(int64(1), nil)
	repos.reviews.On("AverageByProductID", ctx, int64(10)).Return(4.5, int64(2), nil)
	repos.products.On("SetRating", ctx, int64(10), 4.5, int64(2)).Return(nil)

	err := uc.AddReview(ctx, 7, "花子", 10, AddReviewInput{Rating: 4, Comment: "良い器でした"})

	assert.NoError(t, err)
	repos.products.AssertExpectations(t)
	repos.reviews.AssertExpectations(t)
}

func TestAddReview_InvalidRating(t *testing.T) {
	uc, _, _, _, _ := newProductEnv()

	err := uc.AddReview(context.Background(), 7, "花子", 10, AddReviewInput{Rating: 6})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestAdminUpdateInventory_WritesAdjustmentAndAudit(t *testing.T) {
	uc, _, productRepo, inventoryRepo, auditRepo := newProductEnv()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(10)).Return(model.Product{ID: 10, Stock: 3}, nil)
	inventoryRepo.On("SetStock", ctx, int64(10), int64(8)).Return(nil)
	inventoryRepo.On("CreateAdjustment", ctx, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == 10 && a.Delta == 5 && a.ActorUserID == 1 && a.Reason == "再入荷"
	})).Return(nil)
	auditRepo.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.BeforeJSON == `{"stock":3}` && l.AfterJSON == `{"stock":8}`
	})).Return(nil)

	err := uc.AdminUpdateInventory(ctx, 1, 10, 8, "再入荷")

	assert.NoError(t, err)
	inventoryRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestAdminUpdateInventory_NegativeStock(t *testing.T) {
	uc, _, _, _, _ := newProductEnv()

	err := uc.AdminUpdateInventory(context.Background(), 1, 10, -1, "調整")

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestListPublicProducts_InvalidSort(t *testing.T) {
	uc, _, _, _, _ := newProductEnv()

	_, err := uc.ListPublicProducts(context.Background(), ListProductsInput{Page: 1, Limit: 20, Sort: "bogus"})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestListPublicProducts_NotFoundPassthrough(t *testing.T) {
	uc, _, productRepo, _, _ := newProductEnv()
	ctx := context.Background()

	productRepo.On("FindByIDWithRelations", ctx, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(ctx, 99)

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
