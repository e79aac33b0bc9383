package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

type Cake struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

type Customization struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	CakeID     int64     `json:"cake_id"`
	Message    string    `json:"message"`
	EggVersion bool      `json:"egg_version"`
	Toppings   string    `json:"toppings"`
	Shape      string    `json:"shape"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cart is a customer's in-progress selection. CustomizationID points at the
// latest customization attached via add-to-cart; replaced ones stay around
// as standalone records.
type Cart struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	Quantity        int             `json:"quantity"`
	CustomizationID *int64          `json:"customization_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []CartItem      `json:"items,omitempty"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	CakeID    int64     `json:"cake_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Order snapshots a cart at placement time. Items, total_price and
// delivery_address are fixed after creation; only status and payment
// fields mutate.
type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	OrderNumber     string          `json:"order_number"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DeliveryAddress string          `json:"delivery_address"`
	OrderStatus     string          `json:"order_status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
	Items           []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	CakeID    int64     `json:"cake_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Conventional status values. order_status and payment_status are stored as
// free-form strings; these are the values the storefront itself uses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)
