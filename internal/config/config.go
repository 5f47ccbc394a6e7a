package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	// ClientBaseURL is where the storefront SPA lives; PayPal redirects the
	// buyer back there after approving or cancelling a payment.
	ClientBaseURL string `env:"CLIENT_BASE_URL" envDefault:"http://localhost:5173"`

	DB        Database  `envPrefix:"DB_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	Braintree Braintree `envPrefix:"BRAINTREE_"`
	Exchange  Exchange  `envPrefix:"EXCHANGE_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

type Database struct {
	// Driver is "sqlite" or "mysql".
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"storefront.db"`
}

type Auth struct {
	// JWTSecret empty means auth is disabled and every request runs as DemoUserID.
	JWTSecret  string `env:"JWT_SECRET"`
	DemoUserID string `env:"DEMO_USER_ID" envDefault:"demo-user-001"`
}

type Exchange struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.exchangerate-api.com/v4"`
	// BaseCurrency is the currency catalog prices are stored in.
	BaseCurrency string `env:"BASE_CURRENCY" envDefault:"INR"`
	// SettlementCurrency is what the payment gateway settles in.
	SettlementCurrency string `env:"SETTLEMENT_CURRENCY" envDefault:"USD"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
