package repository

import (
	"atelier/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//画像・レビュー込みで1件取得（詳細表示用）
	FindByIDWithRelations(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//画像の並びを丸ごと入れ替える
	ReplaceImages(ctx context.Context, productID int64, urls []string) error

	//レビュー集計値の反映
	SetRating(ctx context.Context, productID int64, rating float64, reviewCount int64) error
}
