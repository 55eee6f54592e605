package repository

import (
	"atelier/internal/domain/model"
	"context"
	"errors"
	"time"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//最終ログイン時刻の更新
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	//管理者用一覧
	List(ctx context.Context, page int, limit int) ([]model.User, int64, error)
	//ロール・有効状態の変更
	UpdateRoleAndActive(ctx context.Context, userID int64, role model.Role, isActive bool) error
}
