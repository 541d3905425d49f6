package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category, matched case-insensitively"
// @Param search query string false "Substring of name or description"
// @Success 200 {array} model.Product
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context(), c.QueryParam("category"), c.QueryParam("search"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, product)
}
