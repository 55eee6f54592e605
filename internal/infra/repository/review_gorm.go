package repository

import (
	"context"

	"atelier/internal/domain/model"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return 0, err
	}
	return review.ID, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Find(&reviews).Error
	if err != nil {
		return []model.Review{}, err
	}
	return reviews, nil
}

// 平均と件数をDB側で出す（アプリ側で全件なめない）
func (r *ReviewGormRepository) AverageByProductID(ctx context.Context, productID int64) (float64, int64, error) {
	type agg struct {
		Avg   float64
		Count int64
	}
	var a agg
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&a).Error
	if err != nil {
		return 0, 0, err
	}
	return a.Avg, a.Count, nil
}
