package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	return db
}

// fakePaypal records the last gateway request and serves canned results.
type fakePaypal struct {
	createErr   error
	captureErr  error
	lastRequest *client.GatewayOrderRequest
	captures    int
}

func (f *fakePaypal) CreateOrder(_ context.Context, req *client.GatewayOrderRequest) (*client.GatewayOrderResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastRequest = req
	return &client.GatewayOrderResponse{
		GatewayRef: "PAY-REF-1",
		ApproveURL: "https://paypal.test/approve/PAY-REF-1",
	}, nil
}

func (f *fakePaypal) CaptureOrder(_ context.Context, gatewayRef string) (*client.GatewayCaptureResult, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	f.captures++
	return &client.GatewayCaptureResult{
		CaptureID: "CAP-1",
		PayerID:   "payer-1",
		Status:    "COMPLETED",
	}, nil
}

type fakeRates struct {
	rate decimal.Decimal
	err  error
}

func (f *fakeRates) Rate(_ context.Context, _, _ string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.rate, nil
}

type fakeBraintree struct {
	chargeErr  error
	lastAmount string
}

func (f *fakeBraintree) VaultPaymentMethod(_ context.Context, nonce, _, _, _ string) (string, error) {
	return "token-for-" + nonce, nil
}

func (f *fakeBraintree) ChargeVaultedCard(_ context.Context, _ string, amount string) (string, error) {
	if f.chargeErr != nil {
		return "", f.chargeErr
	}
	f.lastAmount = amount
	return "BT-TX-1", nil
}

type fixture struct {
	db          *gorm.DB
	paypal      *fakePaypal
	braintree   *fakeBraintree
	rates       *fakeRates
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	addressRepo repository.AddressRepository
	reviewRepo  repository.ReviewRepository
	vaultRepo   repository.VaultRepository
	carts       CartService
	checkout    CheckoutService
	products    ProductService
	addresses   AddressService
	reviews     ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupDB(t)
	f := &fixture{
		db:          db,
		paypal:      &fakePaypal{},
		braintree:   &fakeBraintree{},
		rates:       &fakeRates{rate: decimal.NewFromInt(1)},
		productRepo: repository.NewProductRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		addressRepo: repository.NewAddressRepository(db),
		reviewRepo:  repository.NewReviewRepository(db),
		vaultRepo:   repository.NewVaultRepository(db),
	}

	cfg := &config.Config{
		BaseURL:       "http://api.test",
		ClientBaseURL: "http://shop.test",
		Exchange: config.Exchange{
			BaseCurrency:       "INR",
			SettlementCurrency: "USD",
		},
	}

	f.carts = NewCartService(f.cartRepo, f.productRepo)
	f.checkout = NewCheckoutService(
		db, f.paypal, f.braintree, f.rates, cfg,
		f.cartRepo, f.productRepo, f.orderRepo, f.addressRepo, f.vaultRepo,
	)
	f.products = NewProductService(f.productRepo)
	f.addresses = NewAddressService(f.addressRepo)
	f.reviews = NewReviewService(f.reviewRepo, f.orderRepo, f.productRepo)

	return f
}

func (f *fixture) seedProduct(t *testing.T, id, title string, price, salePrice float64, stock int) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.Product{
		ID:         id,
		Title:      title,
		Image:      "http://img.test/" + id,
		Category:   "misc",
		Price:      price,
		SalePrice:  salePrice,
		TotalStock: stock,
	}).Error)
}

func (f *fixture) seedAddress(t *testing.T, id, userID string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.Address{
		ID:      id,
		UserID:  userID,
		Address: "1 Test Lane",
		City:    "Testville",
		Pincode: "560001",
		Phone:   "9999999999",
	}).Error)
}

func (f *fixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	var product model.Product
	require.NoError(t, f.db.Where("id = ?", productID).First(&product).Error)
	return product.TotalStock
}
