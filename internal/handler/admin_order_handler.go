package handler

import (
	"net/http"
	"time"

	mw "atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	adminOrderUC *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(adminOrderUC *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{adminOrderUC: adminOrderUC}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/admin/orders", authMW)
	g.GET("", h.List, mw.Authorize(mw.ActionOrdersReadAll))
	g.GET("/:id", h.Detail, mw.Authorize(mw.ActionOrdersReadAll))
	g.GET("/:id/invoice", h.Invoice, mw.Authorize(mw.ActionOrdersReadAll))
	g.PATCH("/:id/status", h.UpdateStatus, mw.Authorize(mw.ActionOrdersUpdateStatus))
	g.DELETE("/:id", h.Delete, mw.Authorize(mw.ActionOrdersDelete))
}

func (h *AdminOrderHandler) List(c echo.Context) error {
	in := usecase.AdminOrderListInput{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
		Status: c.QueryParam("status"),
		UserID: queryInt64Ptr(c, "user_id"),
	}
	if raw := c.QueryParam("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			in.From = &t
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			in.To = &t
		}
	}

	out, err := h.adminOrderUC.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	out, err := h.adminOrderUC.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) Invoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	pdf, filename, err := h.adminOrderUC.RenderInvoice(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

type updateOrderStatusRequest struct {
	Status       string `json:"status"`
	TrackingLink string `json:"tracking_link"`
}

func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.adminOrderUC.UpdateStatus(c.Request().Context(), userIDFromContext(c), id, usecase.UpdateOrderStatusInput{
		Status:       req.Status,
		TrackingLink: req.TrackingLink,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminOrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	if err := h.adminOrderUC.Delete(c.Request().Context(), userIDFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
