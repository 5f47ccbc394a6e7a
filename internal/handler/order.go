package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/service"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
}

func NewOrderHandler(checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.checkoutService.InitiateCheckout(ctx, &req)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, result)
}

func (h *OrderHandler) CapturePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CaptureRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.checkoutService.Capture(ctx, req.PaymentID, req.PayerID, req.OrderID)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Order confirmed", order)
}

// HandlePaypalReturn is where PayPal redirects the buyer after approval; the
// query token is PayPal's own order reference.
func (h *OrderHandler) HandlePaypalReturn(c echo.Context) error {
	ctx := c.Request().Context()

	gatewayRef := c.QueryParam("token")
	if gatewayRef == "" {
		return apperr.Validation("missing order token")
	}
	payerID := c.QueryParam("PayerID")

	if _, err := h.checkoutService.CaptureByGatewayRef(ctx, gatewayRef, payerID); err != nil {
		return err
	}

	html := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Processing</title>
	</head>
	<body>
		<h2>Payment approved</h2>
		<p>Your order is confirmed. You can close this tab and return to the shop.</p>
	</body>
	</html>
	`

	return c.HTML(http.StatusOK, html)
}

func (h *OrderHandler) ListOrdersByUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	if userID == "" {
		return apperr.Validation("user id is mandatory")
	}

	orders, err := h.checkoutService.ListOrders(ctx, userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderDetails(c echo.Context) error {
	ctx := c.Request().Context()

	order, items, err := h.checkoutService.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.checkoutService.ListAllOrders(ctx)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.checkoutService.UpdateOrderStatus(ctx, c.Param("id"), req.Status); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Order status updated", nil)
}

func (h *OrderHandler) SavePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SaveCardRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.checkoutService.SaveCard(ctx, &req); err != nil {
		return err
	}

	return respondMessage(c, http.StatusCreated, "Payment method saved", nil)
}
