package model

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusRejected   = "rejected"
	OrderStatusInProcess  = "inProcess"
	OrderStatusInShipping = "inShipping"
	OrderStatusDelivered  = "delivered"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

const (
	PaymentMethodPaypal = "paypal"
	PaymentMethodCard   = "card"
)

type Product struct {
	ID            string `gorm:"primaryKey;size:64;not null"`
	Image         string
	Title         string `gorm:"size:255;not null"`
	Description   string
	Category      string  `gorm:"size:64;index"`
	Brand         string  `gorm:"size:64;index"`
	Price         float64 `gorm:"not null"`
	SalePrice     float64
	TotalStock    int `gorm:"not null"`
	AverageReview float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Cart is the per-user singleton; items live in CartItem keyed by
// (cart_id, product_id) so quantity bumps can be done as a single upsert.
type Cart struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	UserID    string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	CartID    string `gorm:"primaryKey;size:64;not null"`
	ProductID string `gorm:"primaryKey;size:64;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order snapshots the cart and the shipping address at checkout time; later
// catalog or address edits never touch it. Line items live in OrderItem.
type Order struct {
	ID     string `gorm:"primaryKey;size:64;not null"`
	UserID string `gorm:"size:64;index;not null"`
	CartID string `gorm:"size:64;not null"`

	// address snapshot
	AddressID string `gorm:"size:64;not null"`
	Address   string `gorm:"not null"`
	City      string `gorm:"size:128;not null"`
	Pincode   string `gorm:"size:16;not null"`
	Phone     string `gorm:"size:32;not null"`
	Notes     string

	OrderStatus   string `gorm:"size:32;index;not null"`
	PaymentMethod string `gorm:"size:32;not null"`
	PaymentStatus string `gorm:"size:32;index;not null"`

	// TotalAmount is in the catalog's base currency; SettlementAmount is what
	// the gateway was asked to settle after conversion.
	TotalAmount        float64 `gorm:"not null"`
	Currency           string  `gorm:"size:8;not null"`
	SettlementAmount   float64 `gorm:"not null"`
	SettlementCurrency string  `gorm:"size:8;not null"`

	OrderDate time.Time
	UpdatedAt time.Time

	// gateway correlation, populated on capture
	PaymentID       string `gorm:"size:64"`
	PayerID         string `gorm:"size:64"`
	GatewayOrderRef string `gorm:"size:64;index"`
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"size:64;index;not null"`
	ProductID string `gorm:"size:64;index;not null"`
	Title     string `gorm:"not null"`
	Image     string
	// Price is the unit price charged at checkout, in the base currency.
	Price     float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
	Currency  string  `gorm:"size:8;not null"`
	CreatedAt time.Time
}

type Address struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	UserID    string `gorm:"size:64;index;not null"`
	Address   string `gorm:"not null"`
	City      string `gorm:"size:128;not null"`
	Pincode   string `gorm:"size:16;not null"`
	Phone     string `gorm:"size:32;not null"`
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Review struct {
	ID            string `gorm:"primaryKey;size:64;not null"`
	ProductID     string `gorm:"size:64;index;not null"`
	UserID        string `gorm:"size:64;index;not null"`
	UserName      string `gorm:"size:128;not null"`
	ReviewMessage string
	ReviewValue   int `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CardVault stores a gateway payment token for one-click card checkout.
type CardVault struct {
	UserID    string `gorm:"primaryKey;size:64;not null"`
	Token     string `gorm:"size:128;not null"`
	Provider  string `gorm:"size:32;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
