package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfillment stage of an order. It is admin-mutable and
// carries no enforced ordering: any status is reachable from any other.
type Status string

const (
	StatusOrderPlaced    Status = "Order Placed"
	StatusPacking        Status = "Packing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// PaymentMethod is the canonical payment method enumeration. The upstream
// schema drifted between "paymentMethod" and "method"; this field is the
// single source of truth.
type PaymentMethod string

const (
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// OrderItem is a single purchased line item. Items are set at order
// creation and immutable thereafter.
type OrderItem struct {
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// Address is the shipping destination captured at checkout.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Order represents a single purchase transaction. Status is mutated
// exclusively through the status machine; Payment is mutated by the
// payment collaborator, never by the admin.
type Order struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	CustomerEmail string        `json:"customer_email"`
	Items         []OrderItem   `json:"items"`
	Amount        float64       `json:"amount"`
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Payment       bool          `json:"payment"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// StatusChange is one append-only audit record of a status transition.
type StatusChange struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changed_at"`
}
