package dto

type AddCartItemRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CartLine is a read-only projection: image/title/price come from the live
// catalog at read time, only the quantity belongs to the cart itself.
type CartLine struct {
	ProductID string  `json:"productId"`
	Image     string  `json:"image"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"salePrice"`
	Quantity  int     `json:"quantity"`
}

type CartResponse struct {
	CartID string     `json:"cartId"`
	UserID string     `json:"userId"`
	Items  []CartLine `json:"items"`
}

type CreateOrderRequest struct {
	UserID        string `json:"userId" validate:"required"`
	AddressID     string `json:"addressId" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=paypal card"`
}

type CreateOrderResponse struct {
	OrderID     string `json:"orderId"`
	ApprovalURL string `json:"approvalURL,omitempty"`
}

type CaptureRequest struct {
	PaymentID string `json:"paymentId"`
	PayerID   string `json:"payerId"`
	OrderID   string `json:"orderId" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected inProcess inShipping delivered"`
}

type ProductRequest struct {
	Image       string  `json:"image"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	SalePrice   float64 `json:"salePrice" validate:"gte=0"`
	TotalStock  int     `json:"totalStock" validate:"gte=0"`
}

type ProductListQuery struct {
	Categories []string
	Brands     []string
	SortBy     string
}

type AddressRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Notes   string `json:"notes"`
}

type ReviewRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	UserID        string `json:"userId" validate:"required"`
	UserName      string `json:"userName" validate:"required"`
	ReviewMessage string `json:"reviewMessage"`
	ReviewValue   int    `json:"reviewValue" validate:"required,min=1,max=5"`
}

type SaveCardRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Nonce     string `json:"nonce" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
}
