package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
)

func checkoutReq(userID, addressID, method string) *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		UserID:        userID,
		AddressID:     addressID,
		PaymentMethod: method,
	}
}

func (f *fixture) fillCart(t *testing.T, userID string, productID string, quantity int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), userID, productID, quantity)
	require.NoError(t, err)
}

func TestInitiateCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAddress(t, "a1", "u1")

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	orders, err := f.orderRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestInitiateCheckoutMissingAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 10)
	f.fillCart(t, "u1", "p1", 1)

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "missing", "paypal"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestInitiateCheckoutCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 10)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.ApprovalURL)

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 200.0, order.TotalAmount)
	assert.Equal(t, "PAY-REF-1", order.GatewayOrderRef)

	// address is snapshotted onto the order
	assert.Equal(t, "Testville", order.City)

	items, err := f.orderRepo.GetItems(ctx, f.db, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Title)
	assert.Equal(t, 100.0, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestInitiateCheckoutUsesSalePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 80, 10)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 160.0, order.TotalAmount)
}

func TestInitiateCheckoutLineSumEqualsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// awkward rate that would expose independent rounding drift
	f.rates.rate = decimal.RequireFromString("0.0117")
	f.seedProduct(t, "p1", "Widget", 99.99, 0, 10)
	f.seedProduct(t, "p2", "Gadget", 33.33, 0, 10)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 3)
	f.fillCart(t, "u1", "p2", 7)

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	req := f.paypal.lastRequest
	require.NotNil(t, req)

	sum := decimal.Zero
	for _, item := range req.Items {
		unit := decimal.RequireFromString(item.UnitValue)
		sum = sum.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, req.Total, sum.StringFixed(2))
}

func TestInitiateCheckoutGatewayFailureLeavesNoOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 10)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	f.paypal.createErr = errors.New("paypal down")

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	assert.Equal(t, apperr.KindGateway, apperr.KindOf(err))

	orders, err := f.orderRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestInitiateCheckoutRateLookupFailureBlocksCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 10)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	f.rates.err = errors.New("rate api down")

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	assert.Equal(t, apperr.KindGateway, apperr.KindOf(err))

	orders, err := f.orderRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCaptureConfirmsOrderAndFinalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	order, err := f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusConfirmed, order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "pay-1", order.PaymentID)
	assert.Equal(t, "payer-1", order.PayerID)

	assert.Equal(t, 3, f.stockOf(t, "p1"))

	// the source cart is gone
	_, err = f.cartRepo.FindByUserID(ctx, "u1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCaptureTwiceDoesNotDoubleDecrement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	_, err = f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	require.NoError(t, err)

	_, err = f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	assert.Equal(t, 3, f.stockOf(t, "p1"))
}

func TestCaptureUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.Capture(context.Background(), "pay-1", "payer-1", "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCaptureGatewayFailureLeavesOrderPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	f.paypal.captureErr = errors.New("capture declined")

	_, err = f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	assert.Equal(t, apperr.KindGateway, apperr.KindOf(err))

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 5, f.stockOf(t, "p1"))
}

func TestCaptureInsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 10)
	f.seedProduct(t, "p2", "Gadget", 50, 0, 1)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)
	f.fillCart(t, "u1", "p2", 3)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	_, err = f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// nothing was applied: stock, order status and cart are all untouched
	assert.Equal(t, 10, f.stockOf(t, "p1"))
	assert.Equal(t, 1, f.stockOf(t, "p2"))

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)

	_, err = f.cartRepo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
}

func TestCaptureByGatewayRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	order, err := f.checkout.CaptureByGatewayRef(ctx, "PAY-REF-1", "payer-9")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "payer-9", order.PayerID)
	// payment id falls back to the gateway capture id
	assert.Equal(t, "CAP-1", order.PaymentID)
}

func TestCardCheckoutSettlesImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 2)

	require.NoError(t, f.checkout.SaveCard(ctx, &dto.SaveCardRequest{
		UserID: "u1",
		Nonce:  "nonce-1",
	}))

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "card"))
	require.NoError(t, err)
	assert.Empty(t, resp.ApprovalURL)
	assert.Equal(t, "200.00", f.braintree.lastAmount)

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, order.OrderStatus)
	assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, 3, f.stockOf(t, "p1"))

	_, err = f.cartRepo.FindByUserID(ctx, "u1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCardCheckoutWithoutSavedCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	_, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "card"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	orders, err := f.orderRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListOrdersEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.ListOrders(context.Background(), "u1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateOrderStatusRequiresPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)

	err = f.checkout.UpdateOrderStatus(ctx, resp.OrderID, model.OrderStatusInShipping)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// rejection is allowed while unpaid
	require.NoError(t, f.checkout.UpdateOrderStatus(ctx, resp.OrderID, model.OrderStatusRejected))

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRejected, order.OrderStatus)
}

func TestUpdateOrderStatusAfterCapture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", "Widget", 100, 0, 5)
	f.seedAddress(t, "a1", "u1")
	f.fillCart(t, "u1", "p1", 1)

	resp, err := f.checkout.InitiateCheckout(ctx, checkoutReq("u1", "a1", "paypal"))
	require.NoError(t, err)
	_, err = f.checkout.Capture(ctx, "pay-1", "payer-1", resp.OrderID)
	require.NoError(t, err)

	require.NoError(t, f.checkout.UpdateOrderStatus(ctx, resp.OrderID, model.OrderStatusInShipping))

	order, err := f.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInShipping, order.OrderStatus)
}
