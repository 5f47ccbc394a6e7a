package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"storefront-api/internal/apperr"
	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/middleware"
	"storefront-api/internal/service"
)

type Server struct {
	echo           *echo.Echo
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	productHandler *handler.ProductHandler
	addressHandler *handler.AddressHandler
	reviewHandler  *handler.ReviewHandler
}

func NewServer(
	cfg *config.Config,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	productService service.ProductService,
	addressService service.AddressService,
	reviewService service.ReviewService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
			} else {
				entry.Info("request")
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(checkoutService),
		productHandler: handler.NewProductHandler(productService),
		addressHandler: handler.NewAddressHandler(addressService),
		reviewHandler:  handler.NewReviewHandler(reviewService),
	}

	s.setupRoutes(cfg)
	return s
}

func (s *Server) setupRoutes(cfg *config.Config) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// paypal sends the buyer back here after approval; no auth header present
	api.GET("/paypal/return", s.orderHandler.HandlePaypalReturn)

	authed := api.Group("", middleware.AuthMiddleware(&cfg.Auth))

	// -------- cart --------
	cart := authed.Group("/cart")
	cart.POST("/add", s.cartHandler.AddToCart)
	cart.GET("/get/:userId", s.cartHandler.GetCart)
	cart.PUT("/update-cart", s.cartHandler.UpdateCartItem)
	cart.DELETE("/:userId/:productId", s.cartHandler.DeleteCartItem)

	// -------- orders --------
	order := authed.Group("/order")
	order.POST("/create", s.orderHandler.CreateOrder)
	order.POST("/capture", s.orderHandler.CapturePayment)
	order.GET("/list/:userId", s.orderHandler.ListOrdersByUser)
	order.GET("/details/:id", s.orderHandler.GetOrderDetails)

	// -------- catalog --------
	authed.GET("/products", s.productHandler.ListProducts)
	authed.GET("/products/:id", s.productHandler.GetProduct)
	authed.GET("/products/search/:keyword", s.productHandler.SearchProducts)

	// -------- addresses --------
	address := authed.Group("/address")
	address.POST("/add", s.addressHandler.AddAddress)
	address.GET("/:userId", s.addressHandler.ListAddresses)
	address.PUT("/:userId/:addressId", s.addressHandler.UpdateAddress)
	address.DELETE("/:userId/:addressId", s.addressHandler.DeleteAddress)

	// -------- reviews --------
	review := authed.Group("/review")
	review.POST("/add", s.reviewHandler.AddReview)
	review.GET("/:productId", s.reviewHandler.ListReviews)

	// -------- payment methods --------
	authed.POST("/payment-methods", s.orderHandler.SavePaymentMethod)

	// -------- admin --------
	admin := authed.Group("/admin")
	admin.POST("/products", s.productHandler.CreateProduct)
	admin.PUT("/products/:id", s.productHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.productHandler.DeleteProduct)
	admin.GET("/orders", s.orderHandler.ListAllOrders)
	admin.PUT("/orders/:id/status", s.orderHandler.UpdateOrderStatus)
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Some error occurred!"

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Kind {
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindGateway:
			status = http.StatusBadGateway
		case apperr.KindInsufficientStock, apperr.KindConflict:
			status = http.StatusConflict
		case apperr.KindUnauthorized:
			status = http.StatusUnauthorized
		case apperr.KindForbidden:
			status = http.StatusForbidden
		}
	} else if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("unhandled error")
	}

	_ = c.JSON(status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
