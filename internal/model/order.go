package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	// OrderCancelled exists in the status vocabulary but no transition assigns
	// it; the cancellation flow is unspecified upstream.
	OrderCancelled OrderStatus = "Cancelled"
)

// OrderItem is a snapshot of a product line taken at order-creation time.
// Later product edits never alter historical orders.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Image     string    `gorm:"type:varchar(500)" json:"image"`
	Price     float64   `gorm:"not null" json:"price"`
	Qty       int       `gorm:"not null" json:"qty"`
}

// PaymentResult is the gateway confirmation snapshot stored on a paid order.
type PaymentResult struct {
	PaymentID    string `gorm:"type:varchar(255)" json:"id,omitempty"`
	Status       string `gorm:"type:varchar(50)" json:"status,omitempty"`
	UpdateTime   string `gorm:"type:varchar(50)" json:"update_time,omitempty"`
	EmailAddress string `gorm:"type:varchar(255)" json:"email_address,omitempty"`
}

// Order is owned by the purchasing user. Orders are never hard-deleted.
type Order struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	OrderItems      []OrderItem `json:"order_items"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string      `gorm:"type:varchar(30);not null" json:"payment_method"`

	ItemsPrice    float64 `gorm:"not null;default:0" json:"items_price"`
	TaxPrice      float64 `gorm:"not null;default:0" json:"tax_price"`
	ShippingPrice float64 `gorm:"not null;default:0" json:"shipping_price"`
	TotalPrice    float64 `gorm:"not null;default:0" json:"total_price"`

	IsPaid        bool          `gorm:"default:false" json:"is_paid"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentResult PaymentResult `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`

	IsDelivered bool       `gorm:"default:false" json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`

	// Optimistic concurrency token: pay/ship/deliver are conditional on it.
	Version int `gorm:"not null;default:0" json:"version"`
}

// ContainsProductOf reports whether any line item references one of the given
// product ids. Used for seller ownership checks on ship/deliver.
func (o *Order) ContainsProductOf(productIDs []uuid.UUID) bool {
	for _, item := range o.OrderItems {
		for _, id := range productIDs {
			if item.ProductID == id {
				return true
			}
		}
	}
	return false
}
