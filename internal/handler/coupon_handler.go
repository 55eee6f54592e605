package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CouponHandler struct {
	couponUC *usecase.CouponUsecase
}

func NewCouponHandler(couponUC *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{couponUC: couponUC}
}

func (h *CouponHandler) RegisterRoutes(e *echo.Echo, publicMW ...echo.MiddlewareFunc) {
	//カート画面からの事前チェック用。未ログインでも叩ける（流量制限のみ）
	e.POST("/coupons/validate", h.Validate, publicMW...)
}

type validateCouponRequest struct {
	Code        string `json:"code"`
	OrderAmount int64  `json:"order_amount"`
}

func (h *CouponHandler) Validate(c echo.Context) error {
	var req validateCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	out, err := h.couponUC.Evaluate(c.Request().Context(), req.Code, req.OrderAmount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
