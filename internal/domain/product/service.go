// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/boutique-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested product does not exist or
	// is sold out on public reads
	ErrNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when the requested color/size does not
	// exist for the product
	ErrVariantNotFound = errors.New("product variant not found")
	// ErrDuplicateName is returned when a product name is already taken
	ErrDuplicateName = errors.New("product name already exists")
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SizeRequest describes the stock of one size
type SizeRequest struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// ColorRequest describes one color and its per-size stock
type ColorRequest struct {
	Name  string        `json:"name" binding:"required"`
	Value string        `json:"value" binding:"required"`
	Sizes []SizeRequest `json:"sizes"`
}

// ImageRequest references an already-hosted product image
type ImageRequest struct {
	URL  string `json:"image" binding:"required"`
	View string `json:"view"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name                 string         `json:"name" binding:"required"`
	Category             string         `json:"category" binding:"required"`
	Gender               Gender         `json:"gender"`
	Price                int64          `json:"price"`
	Colors               []ColorRequest `json:"available_colors"`
	Images               []ImageRequest `json:"images"`
	ShowOnProductsPage   bool           `json:"show_on_products_page"`
	ShowOnTrendingPage   bool           `json:"show_on_trending_page"`
	ShowOnBestOffersPage bool           `json:"show_on_best_offers_page"`
	ShowOnSpecialsPage   bool           `json:"show_on_specials_page"`
}

// UpdateRequest represents product update data; nil fields are left as-is
type UpdateRequest struct {
	Name                 *string         `json:"name"`
	Category             *string         `json:"category"`
	Gender               *Gender         `json:"gender"`
	Price                *int64          `json:"price"`
	Colors               *[]ColorRequest `json:"available_colors"`
	Images               *[]ImageRequest `json:"images"`
	ShowOnProductsPage   *bool           `json:"show_on_products_page"`
	ShowOnTrendingPage   *bool           `json:"show_on_trending_page"`
	ShowOnBestOffersPage *bool           `json:"show_on_best_offers_page"`
	ShowOnSpecialsPage   *bool           `json:"show_on_specials_page"`
}

// ListPublic returns sellable products for the storefront: sold-out colors
// are stripped and fully sold-out products are hidden.
func (s *Service) ListPublic(ctx context.Context, category string) ([]Product, error) {
	products, err := s.list(ctx, category)
	if err != nil {
		return nil, err
	}

	visible := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.HasStock() {
			continue
		}
		p.Colors = p.SellableColors()
		visible = append(visible, p)
	}
	return visible, nil
}

// ListAdmin returns every product including sold-out ones
func (s *Service) ListAdmin(ctx context.Context, category string) ([]Product, error) {
	return s.list(ctx, category)
}

func (s *Service) list(ctx context.Context, category string) ([]Product, error) {
	query := s.db.WithContext(ctx).
		Preload("Colors.Sizes").
		Preload("Images")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetPublic retrieves a single sellable product, sold-out colors stripped
func (s *Service) GetPublic(ctx context.Context, id uint) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.HasStock() {
		return nil, ErrNotFound
	}
	p.Colors = p.SellableColors()
	return p, nil
}

// Get retrieves a single product by ID
func (s *Service) Get(ctx context.Context, id uint) (*Product, error) {
	var p Product
	result := s.db.WithContext(ctx).
		Preload("Colors.Sizes").
		Preload("Images").
		First(&p, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &p, nil
}

// VariantStock returns the product and the available quantity for one
// color/size combination. Cart handlers use it to snapshot price, image and
// the stock ceiling when building cart lines.
func (s *Service) VariantStock(ctx context.Context, id uint, colorName, sizeName string) (*Product, int, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	for _, color := range p.Colors {
		if color.Name != colorName {
			continue
		}
		for _, size := range color.Sizes {
			if size.Size == sizeName {
				return p, size.Quantity, nil
			}
		}
	}
	return nil, 0, ErrVariantNotFound
}

// Create adds a new product with its colors, sizes and image references
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	if err := validateFields(req.Name, req.Price, req.Gender); err != nil {
		return nil, err
	}

	var existing Product
	result := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing)
	if result.Error == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check product name: %w", result.Error)
	}

	gender := req.Gender
	if gender == "" {
		gender = GenderUnisex
	}

	p := Product{
		Name:                 strings.TrimSpace(req.Name),
		Category:             req.Category,
		Gender:               gender,
		Price:                req.Price,
		Colors:               buildColors(req.Colors),
		Images:               buildImages(req.Images),
		ShowOnProductsPage:   req.ShowOnProductsPage,
		ShowOnTrendingPage:   req.ShowOnTrendingPage,
		ShowOnBestOffersPage: req.ShowOnBestOffersPage,
		ShowOnSpecialsPage:   req.ShowOnSpecialsPage,
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &p, nil
}

// Update edits an existing product. Replacing colors or images swaps the
// whole child set, matching how the admin screen submits them.
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Gender != nil {
		if !req.Gender.Valid() {
			return nil, fmt.Errorf("gender must be male, female, or unisex")
		}
		p.Gender = *req.Gender
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("valid positive price required")
		}
		p.Price = *req.Price
	}
	if req.ShowOnProductsPage != nil {
		p.ShowOnProductsPage = *req.ShowOnProductsPage
	}
	if req.ShowOnTrendingPage != nil {
		p.ShowOnTrendingPage = *req.ShowOnTrendingPage
	}
	if req.ShowOnBestOffersPage != nil {
		p.ShowOnBestOffersPage = *req.ShowOnBestOffersPage
	}
	if req.ShowOnSpecialsPage != nil {
		p.ShowOnSpecialsPage = *req.ShowOnSpecialsPage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Colors != nil {
			if err := s.replaceColors(tx, p, buildColors(*req.Colors)); err != nil {
				return err
			}
		}
		if req.Images != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&Image{}).Error; err != nil {
				return fmt.Errorf("failed to replace images: %w", err)
			}
			p.Images = buildImages(*req.Images)
			for i := range p.Images {
				p.Images[i].ProductID = p.ID
			}
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a product and its variants
func (s *Service) Delete(ctx context.Context, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, color := range p.Colors {
			if err := tx.Where("color_id = ?", color.ID).Delete(&Size{}).Error; err != nil {
				return fmt.Errorf("failed to delete product sizes: %w", err)
			}
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&Color{}).Error; err != nil {
			return fmt.Errorf("failed to delete product colors: %w", err)
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Delete(&Product{}, p.ID).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

// Private helper methods

func (s *Service) replaceColors(tx *gorm.DB, p *Product, colors []Color) error {
	for _, color := range p.Colors {
		if err := tx.Where("color_id = ?", color.ID).Delete(&Size{}).Error; err != nil {
			return fmt.Errorf("failed to replace sizes: %w", err)
		}
	}
	if err := tx.Where("product_id = ?", p.ID).Delete(&Color{}).Error; err != nil {
		return fmt.Errorf("failed to replace colors: %w", err)
	}

	p.Colors = colors
	for i := range p.Colors {
		p.Colors[i].ProductID = p.ID
	}
	return nil
}

func validateFields(name string, price int64, gender Gender) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return fmt.Errorf("valid name required")
	}
	if price < 0 {
		return fmt.Errorf("valid positive price required")
	}
	if gender != "" && !gender.Valid() {
		return fmt.Errorf("gender must be male, female, or unisex")
	}
	return nil
}

func buildColors(reqs []ColorRequest) []Color {
	colors := make([]Color, 0, len(reqs))
	for _, cr := range reqs {
		color := Color{Name: cr.Name, Value: cr.Value}
		for _, sr := range cr.Sizes {
			color.Sizes = append(color.Sizes, Size{Size: sr.Size, Quantity: sr.Quantity})
		}
		colors = append(colors, color)
	}
	return colors
}

func buildImages(reqs []ImageRequest) []Image {
	images := make([]Image, 0, len(reqs))
	for _, ir := range reqs {
		images = append(images, Image{URL: ir.URL, View: ir.View})
	}
	return images
}
