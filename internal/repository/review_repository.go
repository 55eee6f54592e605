package repository

import (
	"atelier/internal/domain/model"
	"context"
)

type ReviewRepository interface {
	Create(ctx context.Context, review model.Review) (int64, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	//平均と件数をDB側で集計する
	AverageByProductID(ctx context.Context, productID int64) (float64, int64, error)
}
