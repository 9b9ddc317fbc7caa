// internal/domain/order/entity.go
package order

import (
	"time"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInDelivery Status = "in_delivery"
	StatusReached    Status = "reached"
	StatusCanceled   Status = "canceled"
)

// Valid reports whether the status is one of the enumerated values
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInDelivery, StatusReached, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted out of s
func (s Status) Terminal() bool {
	return s == StatusReached || s == StatusCanceled
}

// DeliveryType represents how an order is delivered
type DeliveryType string

const (
	DeliveryHome DeliveryType = "home"
	DeliveryDesk DeliveryType = "desk"
)

// Valid reports whether the delivery type is one of the enumerated values
func (d DeliveryType) Valid() bool {
	return d == DeliveryHome || d == DeliveryDesk
}

// Order represents a customer order. Items and pricing are an immutable
// snapshot taken at submission time; only the status is mutated afterwards.
type Order struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	CustomerName string       `gorm:"not null;size:255" json:"customer_name"`
	Phone        string       `gorm:"not null;size:30" json:"phone"`
	Wilaya       string       `gorm:"not null;size:100" json:"wilaya"`
	Address      string       `gorm:"size:500" json:"address"` // required for home delivery only
	DeliveryType DeliveryType `gorm:"not null;size:10" json:"delivery_type"`
	Store        string       `gorm:"not null;size:100;index" json:"store"`

	// Financial information, in whole dinars. Subtotal and TotalPrice are
	// nil for bulk orders: pricing is deferred to a manual quotation.
	DeliveryPrice int64  `gorm:"default:0" json:"delivery_price"`
	IsBulk        bool   `gorm:"default:false" json:"is_bulk"`
	Subtotal      *int64 `json:"subtotal"`
	TotalPrice    *int64 `json:"total_price"`

	Status Status `gorm:"not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items []Item `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item represents a snapshot of a cart line inside an order
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Price       int64     `gorm:"not null" json:"price"` // unit price at submission time
	Image       string    `gorm:"size:500" json:"image"`
	Color       string    `gorm:"size:100" json:"color"`
	Size        string    `gorm:"size:50" json:"size"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	MaxQuantity int       `gorm:"default:0" json:"max_quantity"` // stock ceiling seen at add-to-cart time
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }
