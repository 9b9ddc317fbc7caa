// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Line represents one cart line. Identity is the (ProductID, Color, Size)
// triple: a cart holds at most one line per triple.
type Line struct {
	ProductID   uint      `json:"product_id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"` // unit price snapshot, whole dinars
	Image       string    `json:"image"`
	Color       string    `json:"color"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	MaxQuantity int       `json:"max_quantity"` // stock ceiling seen at add time; may go stale
	AddedAt     time.Time `json:"added_at"`
}

// LineKey identifies a cart line
type LineKey struct {
	ProductID uint   `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// Matches reports whether the line is identified by key
func (l Line) Matches(key LineKey) bool {
	return l.ProductID == key.ProductID && l.Color == key.Color && l.Size == key.Size
}

// SessionCart is the Redis-persisted cart for one storefront session
type SessionCart struct {
	SessionID string    `json:"session_id"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals summarizes a cart for display. The subtotal here is advisory only;
// the authoritative pricing is derived server-side at checkout.
type Totals struct {
	ItemCount     int   `json:"item_count"`
	TotalQuantity int   `json:"total_quantity"`
	Subtotal      int64 `json:"subtotal"`
}

// Response represents a cart with its display summary
type Response struct {
	SessionID string    `json:"session_id"`
	Items     []Line    `json:"items"`
	Totals    Totals    `json:"totals"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
