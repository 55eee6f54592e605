package handler

import (
	"net/http"

	mw "atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminProductHandler struct {
	productUC *usecase.ProductUsecase
}

func NewAdminProductHandler(productUC *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{productUC: productUC}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	g := e.Group("/admin/products", authMW, mw.Authorize(mw.ActionProductsWrite))
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/inventory", h.UpdateInventory)
}

type adminProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int64    `json:"stock"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	IsNew       bool     `json:"is_new"`
	IsActive    bool     `json:"is_active"`
}

func (r adminProductRequest) toInput() usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Images:      r.Images,
		IsNew:       r.IsNew,
		IsActive:    r.IsActive,
	}
}

func (h *AdminProductHandler) Create(c echo.Context) error {
	var req adminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	id, err := h.productUC.AdminCreateProduct(c.Request().Context(), userIDFromContext(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
	}

	var req adminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.productUC.AdminUpdateProduct(c.Request().Context(), userIDFromContext(c), id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}

func (h *AdminProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
	}

	if err := h.productUC.AdminDeleteProduct(c.Request().Context(), userIDFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updateInventoryRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *AdminProductHandler) UpdateInventory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
	}

	var req updateInventoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.productUC.AdminUpdateInventory(c.Request().Context(), userIDFromContext(c), id, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"updated": true})
}
