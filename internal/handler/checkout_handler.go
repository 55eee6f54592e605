package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	authUC     *usecase.AuthUsecase
}

func NewCheckoutHandler(checkoutUC *usecase.CheckoutUsecase, authUC *usecase.AuthUsecase) *CheckoutHandler {
	return &CheckoutHandler{checkoutUC: checkoutUC, authUC: authUC}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	e.POST("/checkout", h.CreateSession, authMW)
}

type createSessionRequest struct {
	Items      []usecase.CheckoutItem `json:"items"`
	CouponCode string                 `json:"coupon_code"`
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	userID := userIDFromContext(c)

	//providerのcheckoutページにメールをプリフィルする
	me, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.checkoutUC.StartCheckout(c.Request().Context(), userID, me.Email, usecase.StartCheckoutInput{
		Items:      req.Items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
