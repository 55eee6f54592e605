package repository

import (
	"context"
	"errors"

	"atelier/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

// event_idの主キー衝突をそのまま「処理済み」の判定に使う。
// SELECTしてからINSERTすると同時配送ですり抜けるので、INSERT一発で判定する。
func (r *WebhookEventGormRepository) InsertIfAbsent(ctx context.Context, ev model.WebhookEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ev)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}
