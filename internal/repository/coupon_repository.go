package repository

import (
	"atelier/internal/domain/model"
	"context"
)

type CouponRepository interface {
	//codeは大文字正規化済みで渡す
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	FindByID(ctx context.Context, id int64) (model.Coupon, error)
	List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error)
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	SoftDelete(ctx context.Context, id int64) error

	//上限に達していないときだけused_countを+1する（条件付きUPDATE）
	Redeem(ctx context.Context, code string) (bool, error)
}
