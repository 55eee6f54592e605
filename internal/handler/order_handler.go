package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc, publicMW ...echo.MiddlewareFunc) {
	e.GET("/orders", h.ListMine, authMW)
	e.GET("/orders/:id", h.DetailMine, authMW)
	e.GET("/orders/:id/invoice", h.Invoice, authMW)
	//注文コードによるトラッキングは未ログインでも見られる（流量制限のみ）
	e.GET("/track/:code", h.Track, publicMW...)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	out, err := h.orderUC.ListMyOrders(
		c.Request().Context(),
		userIDFromContext(c),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) DetailMine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userIDFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Invoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	pdf, filename, err := h.orderUC.RenderInvoice(c.Request().Context(), userIDFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *OrderHandler) Track(c echo.Context) error {
	out, err := h.orderUC.TrackByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
