package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storefront-api/internal/apperr"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

// CheckoutService coordinates the order lifecycle: snapshot the cart into an
// order, obtain gateway approval, and on capture settle payment, decrement
// stock and dispose of the cart as one transaction.
type CheckoutService interface {
	InitiateCheckout(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	Capture(ctx context.Context, paymentID, payerID, orderID string) (*model.Order, error)
	CaptureByGatewayRef(ctx context.Context, gatewayRef, payerID string) (*model.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, []*model.OrderItem, error)
	ListAllOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	SaveCard(ctx context.Context, req *dto.SaveCardRequest) error
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	paypalClient    client.PaypalClient
	braintreeClient client.BraintreeClient
	rateClient      client.RateClient
	serviceBaseURL  string
	clientBaseURL   string
	baseCurrency    string
	settlementCcy   string

	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	vaultRepo   repository.VaultRepository
}

func NewCheckoutService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	braintreeClient client.BraintreeClient,
	rateClient client.RateClient,
	cfg *config.Config,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	vaultRepo repository.VaultRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		paypalClient:    paypalClient,
		braintreeClient: braintreeClient,
		rateClient:      rateClient,
		serviceBaseURL:  cfg.BaseURL,
		clientBaseURL:   cfg.ClientBaseURL,
		baseCurrency:    cfg.Exchange.BaseCurrency,
		settlementCcy:   cfg.Exchange.SettlementCurrency,
		cartRepo:        cartRepo,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		addressRepo:     addressRepo,
		vaultRepo:       vaultRepo,
	}
}

// checkoutLine pairs an order line with its gateway-currency unit price.
type checkoutLine struct {
	item          *model.OrderItem
	convertedUnit decimal.Decimal
}

func (s *checkoutServiceImpl) InitiateCheckout(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("cart is empty")
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	cartItems, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	address, err := s.addressRepo.FindByID(ctx, req.UserID, req.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("address not found")
		}
		return nil, fmt.Errorf("find address: %w", err)
	}

	orderID := uuid.NewString()
	lines, baseTotal, settleTotal, err := s.priceCart(ctx, orderID, cartItems)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:                 orderID,
		UserID:             req.UserID,
		CartID:             cart.ID,
		AddressID:          address.ID,
		Address:            address.Address,
		City:               address.City,
		Pincode:            address.Pincode,
		Phone:              address.Phone,
		Notes:              address.Notes,
		OrderStatus:        model.OrderStatusPending,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      model.PaymentStatusPending,
		TotalAmount:        baseTotal.InexactFloat64(),
		Currency:           s.baseCurrency,
		SettlementAmount:   settleTotal.InexactFloat64(),
		SettlementCurrency: s.settlementCcy,
	}

	switch req.PaymentMethod {
	case model.PaymentMethodCard:
		return s.checkoutWithCard(ctx, order, lines, settleTotal)
	default:
		return s.checkoutWithPaypal(ctx, order, lines, settleTotal)
	}
}

func (s *checkoutServiceImpl) checkoutWithPaypal(ctx context.Context, order *model.Order, lines []*checkoutLine, settleTotal decimal.Decimal) (*dto.CreateOrderResponse, error) {
	gwItems := make([]client.GatewayItem, len(lines))
	for i, line := range lines {
		gwItems[i] = client.GatewayItem{
			SKU:       line.item.ProductID,
			Name:      line.item.Title,
			UnitValue: line.convertedUnit.StringFixed(2),
			Quantity:  line.item.Quantity,
		}
	}

	total := settleTotal.StringFixed(2)
	resp, err := s.paypalClient.CreateOrder(ctx, &client.GatewayOrderRequest{
		Items:     gwItems,
		Total:     total,
		ItemTotal: total,
		Currency:  s.settlementCcy,
		ReturnURL: fmt.Sprintf("%s/api/paypal/return", s.serviceBaseURL),
		CancelURL: fmt.Sprintf("%s/shop/paypal-cancel", s.clientBaseURL),
	})
	if err != nil {
		// no order row is persisted for a rejected authorization
		return nil, apperr.Gateway("error while creating paypal payment", err)
	}
	order.GatewayOrderRef = resp.GatewayRef

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, itemsOf(lines)); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"gateway_ref": order.GatewayOrderRef,
	}).Info("checkout initiated, awaiting approval")

	return &dto.CreateOrderResponse{
		OrderID:     order.ID,
		ApprovalURL: resp.ApproveURL,
	}, nil
}

// checkoutWithCard charges a vaulted token immediately: authorization and
// capture collapse into one step and the order lands confirmed/paid.
func (s *checkoutServiceImpl) checkoutWithCard(ctx context.Context, order *model.Order, lines []*checkoutLine, settleTotal decimal.Decimal) (*dto.CreateOrderResponse, error) {
	token, err := s.vaultRepo.GetToken(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("no saved card for this user")
		}
		return nil, fmt.Errorf("get vaulted card: %w", err)
	}

	txID, err := s.braintreeClient.ChargeVaultedCard(ctx, token, settleTotal.StringFixed(2))
	if err != nil {
		return nil, apperr.Gateway("card charge failed", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, itemsOf(lines)); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return s.finalize(ctx, tx, order, txID, order.UserID)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"gateway_tx_id":  txID,
		"payment_method": model.PaymentMethodCard,
	}).Info("order settled via vaulted card")

	return &dto.CreateOrderResponse{
		OrderID: order.ID,
	}, nil
}

// priceCart snapshots the cart into order lines and prices them. Unit prices
// are converted to the settlement currency and rounded to 2dp first, so the
// sum of line totals always equals the order total sent to the gateway.
func (s *checkoutServiceImpl) priceCart(ctx context.Context, orderID string, cartItems []*model.CartItem) ([]*checkoutLine, decimal.Decimal, decimal.Decimal, error) {
	ids := make([]string, len(cartItems))
	for i, item := range cartItems {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("get many products by item ids: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	rate, err := s.rateClient.Rate(ctx, s.baseCurrency, s.settlementCcy)
	if err != nil {
		return nil, decimal.Zero, decimal.Zero, apperr.Gateway("could not fetch exchange rate", err)
	}

	lines := make([]*checkoutLine, 0, len(cartItems))
	baseTotal := decimal.Zero
	settleTotal := decimal.Zero

	for _, item := range cartItems {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, decimal.Zero, apperr.NotFound("product %s is no longer available", item.ProductID)
		}

		unit := decimal.NewFromFloat(product.Price)
		if product.SalePrice > 0 {
			unit = decimal.NewFromFloat(product.SalePrice)
		}
		convertedUnit := unit.Mul(rate).Round(2)
		quantity := decimal.NewFromInt(int64(item.Quantity))

		baseTotal = baseTotal.Add(unit.Mul(quantity))
		settleTotal = settleTotal.Add(convertedUnit.Mul(quantity))

		lines = append(lines, &checkoutLine{
			item: &model.OrderItem{
				OrderID:   orderID,
				ProductID: product.ID,
				Title:     product.Title,
				Image:     product.Image,
				Price:     unit.InexactFloat64(),
				Quantity:  item.Quantity,
				Currency:  s.baseCurrency,
			},
			convertedUnit: convertedUnit,
		})
	}

	return lines, baseTotal, settleTotal, nil
}

func (s *checkoutServiceImpl) Capture(ctx context.Context, paymentID, payerID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order cannot be found")
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	return s.captureOrder(ctx, order, paymentID, payerID)
}

// CaptureByGatewayRef serves the gateway's return redirect, where only the
// gateway's own order reference is known.
func (s *checkoutServiceImpl) CaptureByGatewayRef(ctx context.Context, gatewayRef, payerID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByGatewayRef(ctx, gatewayRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order cannot be found")
		}
		return nil, fmt.Errorf("find order by gateway ref: %w", err)
	}

	return s.captureOrder(ctx, order, "", payerID)
}

func (s *checkoutServiceImpl) captureOrder(ctx context.Context, order *model.Order, paymentID, payerID string) (*model.Order, error) {
	if order.PaymentStatus == model.PaymentStatusPaid {
		return nil, apperr.Conflict("order has already been captured")
	}

	result, err := s.paypalClient.CaptureOrder(ctx, order.GatewayOrderRef)
	if err != nil {
		// order stays pending/pending; the buyer is told processing failed
		return nil, apperr.Gateway("payment processing failed", err)
	}
	if paymentID == "" {
		paymentID = result.CaptureID
	}
	if payerID == "" {
		payerID = result.PayerID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.finalize(ctx, tx, order, paymentID, payerID)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_id": paymentID,
	}).Info("order captured")

	confirmed, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	return confirmed, nil
}

// finalize flips the order to confirmed/paid, decrements stock for every line
// and deletes the source cart. It must run inside tx: the paid transition is
// a guarded update, so a concurrent duplicate loses and the whole call rolls
// back, and any line failing the stock check rolls back earlier decrements.
func (s *checkoutServiceImpl) finalize(ctx context.Context, tx *gorm.DB, order *model.Order, paymentID, payerID string) error {
	won, err := s.orderRepo.MarkPaid(ctx, tx, order.ID, paymentID, payerID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if !won {
		return apperr.Conflict("order has already been captured")
	}

	items, err := s.orderRepo.GetItems(ctx, tx, order.ID)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}

	for _, item := range items {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	if err := s.cartRepo.Delete(ctx, tx, order.CartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	return nil
}

func (s *checkoutServiceImpl) ListOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("no orders found")
	}

	return orders, nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, []*model.OrderItem, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("order not found")
		}
		return nil, nil, fmt.Errorf("find order: %w", err)
	}

	items, err := s.orderRepo.GetItems(ctx, s.db, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("get order items: %w", err)
	}

	return order, items, nil
}

func (s *checkoutServiceImpl) ListAllOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *checkoutServiceImpl) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order not found")
		}
		return fmt.Errorf("find order: %w", err)
	}

	// fulfillment statuses only make sense for paid orders
	if status != model.OrderStatusRejected && order.PaymentStatus != model.PaymentStatusPaid {
		return apperr.Validation("order has not been paid yet")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return nil
}

func (s *checkoutServiceImpl) SaveCard(ctx context.Context, req *dto.SaveCardRequest) error {
	token, err := s.braintreeClient.VaultPaymentMethod(ctx, req.Nonce, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return apperr.Gateway("could not save payment method", err)
	}

	err = s.vaultRepo.Save(ctx, &model.CardVault{
		UserID:   req.UserID,
		Token:    token,
		Provider: "braintree",
	})
	if err != nil {
		return fmt.Errorf("save card vault: %w", err)
	}

	return nil
}

func itemsOf(lines []*checkoutLine) []*model.OrderItem {
	items := make([]*model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = line.item
	}
	return items
}
