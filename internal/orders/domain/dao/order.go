package dao

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-system/internal/cart"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentOnline         = "online"
)

// Order statuses, toggled from the admin dashboard. Delivered orders
// are immutable.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

type Order struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Vertical      cart.Vertical   `json:"vertical"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentRef    string          `json:"payment_ref,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	HandlingFee   decimal.Decimal `json:"handling_fee"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	GrandTotal    decimal.Decimal `json:"grand_total"` // major units
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Gender        string          `json:"gender"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	PinCode       string          `json:"pin_code"`
	Phone         string          `json:"phone"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID       int             `json:"id"`
	OrderID  int             `json:"order_id"`
	ItemID   int             `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// StatusEvent is one row of an order's status log.
type StatusEvent struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// FOR RABBITMQ MESSAGE

type OrderPlacedMessage struct {
	OrderNumber   string          `json:"order_number"`
	Vertical      cart.Vertical   `json:"vertical"`
	PaymentMethod string          `json:"payment_method"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone"`
	Items         []OrderItem     `json:"items"`
}
