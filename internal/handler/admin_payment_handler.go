package handler

import (
	"net/http"

	mw "atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminPaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewAdminPaymentHandler(paymentUC *usecase.PaymentUsecase) *AdminPaymentHandler {
	return &AdminPaymentHandler{paymentUC: paymentUC}
}

func (h *AdminPaymentHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/admin/payments", authMW, mw.Authorize(mw.ActionPaymentsRead))
	g.GET("", h.List)
	g.GET("/by-order/:order_id", h.FindByOrder)
}

func (h *AdminPaymentHandler) List(c echo.Context) error {
	out, err := h.paymentUC.AdminList(c.Request().Context(), usecase.PaymentListInput{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
		Status: c.QueryParam("status"),
		UserID: queryInt64Ptr(c, "user_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminPaymentHandler) FindByOrder(c echo.Context) error {
	orderID, err := pathID(c, "order_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid order id"})
	}

	out, err := h.paymentUC.FindByOrderID(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
