package handler

import (
	"net/http"

	mw "atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	adminUserUC *usecase.AdminUserUsecase
}

func NewAdminUserHandler(adminUserUC *usecase.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{adminUserUC: adminUserUC}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/admin/users", authMW, mw.Authorize(mw.ActionUsersManage))
	g.GET("", h.List)
	g.PATCH("/:id", h.Update)

	a := e.Group("/admin/audit-logs", authMW, mw.Authorize(mw.ActionUsersManage))
	a.GET("", h.ListAuditLogs)
}

func (h *AdminUserHandler) List(c echo.Context) error {
	out, err := h.adminUserUC.List(
		c.Request().Context(),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user id"})
	}

	var req usecase.UpdateUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.adminUserUC.UpdateRoleAndActive(c.Request().Context(), userIDFromContext(c), id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminUserHandler) ListAuditLogs(c echo.Context) error {
	out, err := h.adminUserUC.ListAuditLogs(c.Request().Context(), usecase.AuditLogListInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   queryInt64Ptr(c, "resource_id"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
