package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"
)

type AdminUserUsecase struct {
	userRepo  repo.UserRepository
	auditRepo repo.AuditLogRepository
	now       func() time.Time
}

func NewAdminUserUsecase(userRepo repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminUserUsecase {
	return &AdminUserUsecase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

type AdminUserView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AdminUserListOutput struct {
	Items []AdminUserView `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *AdminUserUsecase) List(ctx context.Context, page int, limit int) (AdminUserListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := u.userRepo.List(ctx, page, limit)
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]AdminUserView, 0, len(users))
	for _, user := range users {
		views = append(views, AdminUserView{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Role:        string(user.Role),
			IsActive:    user.IsActive,
			LastLoginAt: user.LastLoginAt,
			CreatedAt:   user.CreatedAt,
		})
	}
	return AdminUserListOutput{Items: views, Total: total, Page: page, Limit: limit}, nil
}

type UpdateUserInput struct {
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// UpdateRoleAndActive はロールと有効状態だけ変更できる。
// 自分自身の降格・無効化は誤操作防止のため拒否する。
func (u *AdminUserUsecase) UpdateRoleAndActive(ctx context.Context, actorUserID int64, targetUserID int64, in UpdateUserInput) error {
	if actorUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if actorUserID == targetUserID {
		return NewHTTPError(http.StatusBadRequest, "cannot modify own account")
	}

	role := model.Role(in.Role)
	switch role {
	case model.RoleUser, model.RoleStaff, model.RoleAdmin:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	target, err := u.userRepo.FindByID(ctx, targetUserID)
	if err == repo.ErrUserNotFound {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.userRepo.UpdateRoleAndActive(ctx, targetUserID, role, in.IsActive); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before, _ := json.Marshal(map[string]interface{}{"role": target.Role, "is_active": target.IsActive})
	after, _ := json.Marshal(map[string]interface{}{"role": role, "is_active": in.IsActive})
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionUpdateUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   string(before),
		AfterJSON:    string(after),
		CreatedAt:    u.now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type AuditLogListInput struct {
	Action       string
	ResourceType string
	ResourceID   *int64
	Limit        int
	Offset       int
}

func (u *AdminUserUsecase) ListAuditLogs(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	if in.Limit < 1 || in.Limit > 200 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	f := repo.AuditLogFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}
	f.ResourceID = in.ResourceID

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
