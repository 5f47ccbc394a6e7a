package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.cartService.AddItem(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, cart)
}

// GetCart reconciles dangling line items first, then returns the pure read,
// so a deleted product disappears from the cart on the next fetch.
func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	if userID == "" {
		return apperr.Validation("user id is mandatory")
	}

	if err := h.cartService.Reconcile(ctx, userID); err != nil {
		return err
	}

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.cartService.UpdateQuantity(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, cart)
}

func (h *CartHandler) DeleteCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	productID := c.Param("productId")
	if userID == "" || productID == "" {
		return apperr.Validation("user id and product id are mandatory")
	}

	cart, err := h.cartService.RemoveItem(ctx, userID, productID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, cart)
}
