package middleware

import (
	"net/http"

	"atelier/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 操作の種類。ハンドラごとのif文で散らさず、ここの表だけで判定する。
type Action string

const (
	ActionOrdersReadAll      Action = "orders:read_all"
	ActionOrdersUpdateStatus Action = "orders:update_status"
	ActionOrdersDelete       Action = "orders:delete"
	ActionProductsWrite      Action = "products:write"
	ActionCouponsWrite       Action = "coupons:write"
	ActionPaymentsRead       Action = "payments:read"
	ActionUsersManage        Action = "users:manage"
)

// ロール→許可する操作の表。
// STAFFは閲覧とステータス更新まで。削除とマスタ管理はADMINだけ。
var capabilities = map[model.Role]map[Action]bool{
	model.RoleStaff: {
		ActionOrdersReadAll:      true,
		ActionOrdersUpdateStatus: true,
		ActionPaymentsRead:       true,
	},
	model.RoleAdmin: {
		ActionOrdersReadAll:      true,
		ActionOrdersUpdateStatus: true,
		ActionOrdersDelete:       true,
		ActionProductsWrite:      true,
		ActionCouponsWrite:       true,
		ActionPaymentsRead:       true,
		ActionUsersManage:        true,
	},
}

// Allowed は表引きだけ（テストしやすいように分離）。
func Allowed(role model.Role, action Action) bool {
	return capabilities[role][action]
}

// Authorize はAuthJWTの後段に置く認可ゲート。
func Authorize(action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !Allowed(model.Role(role), action) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
