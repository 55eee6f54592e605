package usecase

import (
	"context"
	"net/http"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"
)

type PaymentUsecase struct {
	paymentRepo repo.PaymentRepository
}

func NewPaymentUsecase(paymentRepo repo.PaymentRepository) *PaymentUsecase {
	return &PaymentUsecase{paymentRepo: paymentRepo}
}

type PaymentListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
}

type PaymentListOutput struct {
	Items []model.Payment `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *PaymentUsecase) AdminList(ctx context.Context, in PaymentListInput) (PaymentListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" {
		switch model.PaymentRecordStatus(in.Status) {
		case model.PaymentRecordSucceeded, model.PaymentRecordFailed,
			model.PaymentRecordRefunded, model.PaymentRecordPartiallyRefunded:
		default:
			return PaymentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	items, total, err := u.paymentRepo.List(ctx, repo.PaymentListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
	})
	if err != nil {
		return PaymentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return PaymentListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *PaymentUsecase) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	if orderID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := u.paymentRepo.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Payment{}, NewHTTPError(http.StatusNotFound, "payment not found")
	}
	if err != nil {
		return model.Payment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}
