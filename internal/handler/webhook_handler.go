package handler

import (
	"io"
	"net/http"

	"atelier/internal/payment"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookUC *usecase.WebhookUsecase
}

func NewWebhookHandler(webhookUC *usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUC: webhookUC}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	e.POST("/webhooks/payment", h.HandlePaymentEvent, mws...)
}

// 署名検証は生のボディに対して行うので、Bindは使わない。
func (h *WebhookHandler) HandlePaymentEvent(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read body"})
	}

	sig := c.Request().Header.Get(payment.SignatureHeader)

	if _, err := h.webhookUC.HandleEvent(c.Request().Context(), body, sig); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
