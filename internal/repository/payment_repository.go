package repository

import (
	"atelier/internal/domain/model"
	"context"
)

type PaymentListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
}

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) error
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
	List(ctx context.Context, f PaymentListFilter) ([]model.Payment, int64, error)
}
