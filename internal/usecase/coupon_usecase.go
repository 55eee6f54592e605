package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"
)

type CouponUsecase struct {
	couponRepo repo.CouponRepository
	now        func() time.Time
}

func NewCouponUsecase(couponRepo repo.CouponRepository) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// 割引の計算結果。FinalAmountは固定額クーポンだとマイナスになり得る
// （画面表示用。決済セッション側では0未満に切り詰める）。
type CouponEvaluation struct {
	Code           string             `json:"code"`
	DiscountType   model.DiscountType `json:"discount_type"`
	DiscountValue  int64              `json:"discount_value"`
	DiscountAmount int64              `json:"discount_amount"`
	FinalAmount    int64              `json:"final_amount"`
}

// Evaluate は読み取りと計算だけ。used_countはここでは増やさない
// （増やすのは注文が確定するwebhook側）。
func (u *CouponUsecase) Evaluate(ctx context.Context, code string, orderSubtotal int64) (CouponEvaluation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "coupon code required")
	}
	if orderSubtotal < 0 {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "invalid order amount")
	}

	c, err := u.couponRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return CouponEvaluation{}, NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return CouponEvaluation{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//条件はすべて満たす必要がある。どれが落ちたかは理由ごとに返す。
	if !c.IsActive {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "coupon is inactive")
	}

	now := u.now()
	if now.Before(c.ValidFrom) {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "coupon is not yet valid")
	}
	if now.After(c.ValidUntil) {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "coupon has expired")
	}

	if c.UsageLimit != 0 && c.UsedCount >= c.UsageLimit {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "coupon usage limit reached")
	}

	if orderSubtotal < c.MinOrderAmount {
		return CouponEvaluation{}, NewHTTPError(http.StatusBadRequest, "order amount below coupon minimum")
	}

	var discount int64
	switch c.DiscountType {
	case model.DiscountTypePercentage:
		discount = orderSubtotal * c.DiscountValue / 100
	case model.DiscountTypeFixed:
		discount = c.DiscountValue
	default:
		return CouponEvaluation{}, NewHTTPError(http.StatusInternalServerError, "unknown discount type")
	}

	return CouponEvaluation{
		Code:           c.Code,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		DiscountAmount: discount,
		FinalAmount:    orderSubtotal - discount,
	}, nil
}

type AdminCouponInput struct {
	Code           string
	DiscountType   string
	DiscountValue  int64
	MinOrderAmount int64
	UsageLimit     int64
	ValidFrom      time.Time
	ValidUntil     time.Time
	IsActive       bool
}

func (u *CouponUsecase) validate(in AdminCouponInput) (AdminCouponInput, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" {
		return in, NewHTTPError(http.StatusBadRequest, "code required")
	}
	switch model.DiscountType(in.DiscountType) {
	case model.DiscountTypePercentage:
		if in.DiscountValue < 1 || in.DiscountValue > 100 {
			return in, NewHTTPError(http.StatusBadRequest, "percentage must be 1-100")
		}
	case model.DiscountTypeFixed:
		if in.DiscountValue < 1 {
			return in, NewHTTPError(http.StatusBadRequest, "fixed discount must be >= 1")
		}
	default:
		return in, NewHTTPError(http.StatusBadRequest, "invalid discount type")
	}
	if in.MinOrderAmount < 0 {
		return in, NewHTTPError(http.StatusBadRequest, "min_order_amount must be >= 0")
	}
	if in.UsageLimit < 0 {
		return in, NewHTTPError(http.StatusBadRequest, "usage_limit must be >= 0")
	}
	if !in.ValidUntil.After(in.ValidFrom) {
		return in, NewHTTPError(http.StatusBadRequest, "valid_until must be after valid_from")
	}
	return in, nil
}

func (u *CouponUsecase) AdminCreate(ctx context.Context, adminUserID int64, in AdminCouponInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in, err := u.validate(in)
	if err != nil {
		return 0, err
	}

	now := u.now()
	c, err := u.couponRepo.Create(ctx, model.Coupon{
		Code:           in.Code,
		DiscountType:   model.DiscountType(in.DiscountType),
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		UsageLimit:     in.UsageLimit,
		ValidFrom:      in.ValidFrom,
		ValidUntil:     in.ValidUntil,
		IsActive:       in.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c.ID, nil
}

func (u *CouponUsecase) AdminUpdate(ctx context.Context, adminUserID int64, couponID int64, in AdminCouponInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in, err := u.validate(in)
	if err != nil {
		return err
	}

	err = u.couponRepo.Update(ctx, model.Coupon{
		ID:             couponID,
		Code:           in.Code,
		DiscountType:   model.DiscountType(in.DiscountType),
		DiscountValue:  in.DiscountValue,
		MinOrderAmount: in.MinOrderAmount,
		UsageLimit:     in.UsageLimit,
		ValidFrom:      in.ValidFrom,
		ValidUntil:     in.ValidUntil,
		IsActive:       in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CouponUsecase) AdminDelete(ctx context.Context, adminUserID int64, couponID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.couponRepo.SoftDelete(ctx, couponID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type CouponListOutput struct {
	Items []model.Coupon `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (u *CouponUsecase) AdminList(ctx context.Context, adminUserID int64, page int, limit int) (CouponListOutput, error) {
	if adminUserID <= 0 {
		return CouponListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return CouponListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CouponListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.couponRepo.List(ctx, page, limit)
	if err != nil {
		return CouponListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CouponListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
