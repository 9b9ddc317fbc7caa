// internal/domain/order/pricing.go
package order

// BulkQuantityThreshold is the per-line quantity above which an order is
// treated as a wholesale order and priced manually by staff.
const BulkQuantityThreshold = 7

// Totals holds the derived pricing of an order
type Totals struct {
	IsBulk     bool   `json:"is_bulk"`
	Subtotal   *int64 `json:"subtotal"`
	TotalPrice *int64 `json:"total_price"`
}

// ComputeTotals derives the authoritative pricing for a set of items.
// Bulk orders (any line quantity above the threshold) carry no subtotal or
// total: staff quote those by phone. This runs server-side at persistence
// time; client-submitted totals are never trusted.
func ComputeTotals(items []Item, deliveryPrice int64) Totals {
	for _, item := range items {
		if item.Quantity > BulkQuantityThreshold {
			return Totals{IsBulk: true}
		}
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	total := subtotal + deliveryPrice

	return Totals{
		IsBulk:     false,
		Subtotal:   &subtotal,
		TotalPrice: &total,
	}
}
