// internal/domain/product/category_service.go
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
	// ErrCategoryNotFound is returned when the requested category does not exist
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when the category name is taken
	ErrDuplicateCategory = errors.New("category already exists")
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// List returns all categories sorted by name
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// Create adds a new category
func (s *CategoryService) Create(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("valid category name required")
	}

	var existing Category
	result := s.db.WithContext(ctx).Where("name = ?", name).First(&existing)
	if result.Error == nil {
		return nil, ErrDuplicateCategory
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", result.Error)
	}

	category := Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
