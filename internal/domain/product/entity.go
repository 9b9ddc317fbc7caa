// internal/domain/product/entity.go
package product

import (
	"time"
)

// Gender represents the product's target audience
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// Valid reports whether the gender is one of the enumerated values
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnisex
}

// Product represents a catalog product. Stock is tracked per color and size;
// prices are whole dinars.
type Product struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Category string `gorm:"not null;size:100;index" json:"category"`
	Gender   Gender `gorm:"size:10;default:'unisex'" json:"gender"`
	Price    int64  `gorm:"not null" json:"price"`

	// Storefront placement flags
	ShowOnProductsPage   bool `gorm:"default:false" json:"show_on_products_page"`
	ShowOnTrendingPage   bool `gorm:"default:false" json:"show_on_trending_page"`
	ShowOnBestOffersPage bool `gorm:"default:false" json:"show_on_best_offers_page"`
	ShowOnSpecialsPage   bool `gorm:"default:false" json:"show_on_specials_page"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Colors []Color `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"available_colors"`
	Images []Image `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// Color represents a product color variant
type Color struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"not null;size:100" json:"name"`
	Value     string `gorm:"not null;size:20" json:"value"` // hex or CSS color value

	// Relationships
	Sizes []Size `gorm:"foreignKey:ColorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sizes"`
}

// Size represents the stock of one size within a color
type Size struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ColorID  uint   `gorm:"not null;index" json:"color_id"`
	Size     string `gorm:"not null;size:50" json:"size"`
	Quantity int    `gorm:"not null;default:0" json:"quantity"`
}

// Image represents a hosted product image; uploads happen outside this system
type Image struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"not null;size:500" json:"image"`
	View      string `gorm:"size:50" json:"view"` // front, back, side...
}

// Category represents a product category
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Color) TableName() string    { return "product_colors" }
func (Size) TableName() string     { return "product_sizes" }
func (Image) TableName() string    { return "product_images" }
func (Category) TableName() string { return "categories" }

// HasStock reports whether any size of any color is sellable
func (p *Product) HasStock() bool {
	for _, color := range p.Colors {
		if color.HasStock() {
			return true
		}
	}
	return false
}

// HasStock reports whether any size of the color is sellable
func (c *Color) HasStock() bool {
	for _, size := range c.Sizes {
		if size.Quantity > 0 {
			return true
		}
	}
	return false
}

// SellableColors returns only the colors that still have stock in some size
func (p *Product) SellableColors() []Color {
	colors := make([]Color, 0, len(p.Colors))
	for _, color := range p.Colors {
		if color.HasStock() {
			colors = append(colors, color)
		}
	}
	return colors
}
