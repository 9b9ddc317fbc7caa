// internal/domain/delivery/entity.go
package delivery

import (
	"time"
)

// Area represents a deliverable region for one store and delivery company.
// The (store, company, wilaya) triple is unique. Inactive areas stay in the
// table so historical orders keep their context, but are never offered at
// checkout.
type Area struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Wilaya    string    `gorm:"not null;size:100;uniqueIndex:idx_store_company_wilaya" json:"wilaya"`
	Store     string    `gorm:"not null;size:100;uniqueIndex:idx_store_company_wilaya" json:"store"`
	Company   string    `gorm:"not null;size:50;uniqueIndex:idx_store_company_wilaya" json:"company"`
	PriceHome int64     `gorm:"default:600" json:"price_home"`
	PriceDesk int64     `gorm:"default:700" json:"price_desk"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreSetting holds per-store configuration: which delivery company's
// region list is currently offered at checkout.
type StoreSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoreName string    `gorm:"uniqueIndex;not null;size:100" json:"store_name"`
	Company   string    `gorm:"not null;size:50" json:"company"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price is the resolved delivery price pair for a (store, wilaya) lookup
type Price struct {
	Home int64 `json:"price_home"`
	Desk int64 `json:"price_desk"`
}

// ForType returns the price for the given delivery type ("home" or "desk")
func (p Price) ForType(deliveryType string) int64 {
	if deliveryType == "desk" {
		return p.Desk
	}
	return p.Home
}

// TableName overrides
func (Area) TableName() string         { return "delivery_areas" }
func (StoreSetting) TableName() string { return "store_settings" }
