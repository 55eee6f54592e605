package handler

import (
	"net/http"
	"time"

	mw "atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminCouponHandler struct {
	couponUC *usecase.CouponUsecase
}

func NewAdminCouponHandler(couponUC *usecase.CouponUsecase) *AdminCouponHandler {
	return &AdminCouponHandler{couponUC: couponUC}
}

func (h *AdminCouponHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/admin/coupons", authMW, mw.Authorize(mw.ActionCouponsWrite))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

type adminCouponRequest struct {
	Code           string    `json:"code"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  int64     `json:"discount_value"`
	MinOrderAmount int64     `json:"min_order_amount"`
	UsageLimit     int64     `json:"usage_limit"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
	IsActive       bool      `json:"is_active"`
}

func (r adminCouponRequest) toInput() usecase.AdminCouponInput {
	return usecase.AdminCouponInput{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		UsageLimit:     r.UsageLimit,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		IsActive:       r.IsActive,
	}
}

func (h *AdminCouponHandler) List(c echo.Context) error {
	out, err := h.couponUC.AdminList(
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

func (h *AdminCouponHandler) Create(c echo.Context) error {
	var req adminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	id, err := h.couponUC.AdminCreate(c.Request().Context(), userIDFromContext(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminCouponHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid coupon id"})
	}

	var req adminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.couponUC.AdminUpdate(c.Request().Context(), userIDFromContext(c), id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminCouponHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid coupon id"})
	}

	if err := h.couponUC.AdminDelete(c.Request().Context(), userIDFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
