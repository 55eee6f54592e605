package handler

import (
	"net/http"
	"strconv"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productUC *usecase.ProductUsecase
	authUC    *usecase.AuthUsecase
}

func NewProductHandler(productUC *usecase.ProductUsecase, authUC *usecase.AuthUsecase) *ProductHandler {
	return &ProductHandler{productUC: productUC, authUC: authUC}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	e.GET("/products", h.List)
	e.GET("/products/:id", h.Detail)
	e.POST("/products/:id/reviews", h.AddReview, authMW)
}

func (h *ProductHandler) List(c echo.Context) error {
	in := usecase.ListProductsInput{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
		MinPrice: queryInt64Ptr(c, "min_price"),
		MaxPrice: queryInt64Ptr(c, "max_price"),
	}

	out, err := h.productUC.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
	}

	out, err := h.productUC.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) AddReview(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
	}

	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	userID := userIDFromContext(c)

	//レビューには表示名を載せる
	me, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.productUC.AddReview(c.Request().Context(), userID, me.Name, id, usecase.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]bool{"created": true})
}
