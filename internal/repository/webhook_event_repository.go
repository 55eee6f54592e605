package repository

import (
	"atelier/internal/domain/model"
	"context"
)

type WebhookEventRepository interface {
	//未処理のイベントIDならINSERTしてtrue。処理済みならfalse。
	//注文作成と同じトランザクションで呼ぶこと。
	InsertIfAbsent(ctx context.Context, ev model.WebhookEvent) (bool, error)
}
