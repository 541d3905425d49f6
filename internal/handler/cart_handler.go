package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/model"
	"storefront/internal/service"
)

// CartHandler handles cart endpoints.
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, logger: logger}
}

// AddItemRequest represents an add-to-cart request. Quantity defaults to 1
// and is bounded by model.MaxItemQuantity.
type AddItemRequest struct {
	ProductID int  `json:"productId" validate:"required,gt=0"`
	Quantity  *int `json:"quantity" validate:"omitempty,gt=0,lte=10000"`
}

// UpdateQuantityRequest represents a quantity change. Zero or less removes the item.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=10000"`
}

// ClearCartResponse represents the response of clearing a cart.
type ClearCartResponse struct {
	Message string     `json:"message"`
	Cart    model.Cart `json:"cart"`
}

// GetCart godoc
// @Summary Get a user's cart
// @Tags cart
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} model.Cart
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart/{userId} [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.cartService.GetCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem godoc
// @Summary Add a product to a user's cart
// @Tags cart
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body AddItemRequest true "Product and quantity"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart/{userId} [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), c.Param("userId"), req.ProductID, quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateQuantity godoc
// @Summary Set the quantity of a cart item
// @Tags cart
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param productId path int true "Product ID"
// @Param request body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart/{userId}/{productId} [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	cart, err := h.cartService.UpdateQuantity(c.Request().Context(), c.Param("userId"), productID, *req.Quantity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem godoc
// @Summary Remove a product from a user's cart
// @Tags cart
// @Produce json
// @Param userId path string true "User ID"
// @Param productId path int true "Product ID"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart/{userId}/{productId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := parseID(c, "productId")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	cart, err := h.cartService.RemoveItem(c.Request().Context(), c.Param("userId"), productID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// ClearCart godoc
// @Summary Empty a user's cart
// @Tags cart
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} ClearCartResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cart/{userId} [delete]
func (h *CartHandler) ClearCart(c echo.Context) error {
	cart, err := h.cartService.ClearCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, ClearCartResponse{Message: "Cart cleared", Cart: cart})
}
