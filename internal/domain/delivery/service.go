// internal/domain/delivery/service.go
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/boutique-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNoDelivery is returned when no active area matches a lookup
	ErrNoDelivery = errors.New("no delivery available for this store")
	// ErrAreaNotFound is returned when the requested area does not exist
	ErrAreaNotFound = errors.New("delivery area not found")
	// ErrDuplicateArea is returned when the (store, company, wilaya) triple
	// already exists
	ErrDuplicateArea = errors.New("delivery area already exists for this wilaya")
	// ErrInvalidStore is returned for a store outside the configured list
	ErrInvalidStore = errors.New("invalid store name")
	// ErrInvalidCompany is returned for an unknown delivery company
	ErrInvalidCompany = errors.New("invalid delivery company")
)

// Service handles delivery area management and price resolution
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new delivery service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AreasResponse lists a store's offered areas and its active company
type AreasResponse struct {
	Areas         []Area `json:"areas"`
	ActiveCompany string `json:"active_company"`
}

// CreateAreaRequest represents delivery area creation data
type CreateAreaRequest struct {
	Wilaya    string `json:"wilaya" binding:"required"`
	Store     string `json:"store" binding:"required"`
	PriceHome *int64 `json:"price_home"`
	PriceDesk *int64 `json:"price_desk"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateAreaRequest represents delivery area update data
type UpdateAreaRequest struct {
	Wilaya    *string `json:"wilaya"`
	PriceHome *int64  `json:"price_home"`
	PriceDesk *int64  `json:"price_desk"`
	IsActive  *bool   `json:"is_active"`
}

// ListAreas returns the areas offered for a store: only the active delivery
// company's list, sorted by wilaya. Inactive areas are included so the admin
// screen can toggle them; checkout filters on is_active.
func (s *Service) ListAreas(ctx context.Context, store string) (*AreasResponse, error) {
	if !s.config.IsValidStore(store) {
		return nil, ErrInvalidStore
	}

	company, err := s.activeCompany(ctx, store)
	if err != nil {
		return nil, err
	}

	var areas []Area
	err = s.db.WithContext(ctx).
		Where("store = ? AND company = ?", store, company).
		Order("wilaya ASC").
		Find(&areas).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve delivery areas: %w", err)
	}

	return &AreasResponse{Areas: areas, ActiveCompany: company}, nil
}

// Resolve finds the active price pair for (store, wilaya) under the store's
// active delivery company. Wilaya matching is case-sensitive. Pure lookup,
// no side effects beyond the lazily created store setting.
func (s *Service) Resolve(ctx context.Context, store, wilaya string) (*Price, error) {
	if !s.config.IsValidStore(store) {
		return nil, ErrInvalidStore
	}

	company, err := s.activeCompany(ctx, store)
	if err != nil {
		return nil, err
	}

	var area Area
	result := s.db.WithContext(ctx).
		Where("store = ? AND company = ? AND wilaya = ? AND is_active = ?", store, company, wilaya, true).
		First(&area)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNoDelivery
		}
		return nil, fmt.Errorf("failed to resolve delivery price: %w", result.Error)
	}

	return &Price{Home: area.PriceHome, Desk: area.PriceDesk}, nil
}

// CreateArea adds a wilaya to the store's active company list
func (s *Service) CreateArea(ctx context.Context, req *CreateAreaRequest) (*Area, error) {
	wilaya := strings.TrimSpace(req.Wilaya)
	if wilaya == "" {
		return nil, fmt.Errorf("wilaya is required")
	}
	if !s.config.IsValidStore(req.Store) {
		return nil, ErrInvalidStore
	}

	company, err := s.activeCompany(ctx, req.Store)
	if err != nil {
		return nil, err
	}

	var existing Area
	result := s.db.WithContext(ctx).
		Where("store = ? AND company = ? AND wilaya = ?", req.Store, company, wilaya).
		First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateArea, wilaya, company)
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check delivery area: %w", result.Error)
	}

	area := Area{
		Wilaya:    wilaya,
		Store:     req.Store,
		Company:   company,
		PriceHome: 600,
		PriceDesk: 700,
		IsActive:  true,
	}
	if req.PriceHome != nil {
		area.PriceHome = *req.PriceHome
	}
	if req.PriceDesk != nil {
		area.PriceDesk = *req.PriceDesk
	}
	if req.IsActive != nil {
		area.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Create(&area).Error; err != nil {
		return nil, fmt.Errorf("failed to create delivery area: %w", err)
	}

	return &area, nil
}

// UpdateArea edits an existing delivery area. Orders carry a price snapshot,
// so edits never retroactively change past orders.
func (s *Service) UpdateArea(ctx context.Context, id uint, req *UpdateAreaRequest) (*Area, error) {
	var area Area
	if err := s.db.WithContext(ctx).First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAreaNotFound
		}
		return nil, fmt.Errorf("failed to retrieve delivery area: %w", err)
	}

	if req.Wilaya != nil {
		area.Wilaya = strings.TrimSpace(*req.Wilaya)
	}
	if req.PriceHome != nil {
		area.PriceHome = *req.PriceHome
	}
	if req.PriceDesk != nil {
		area.PriceDesk = *req.PriceDesk
	}
	if req.IsActive != nil {
		area.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&area).Error; err != nil {
		return nil, fmt.Errorf("failed to update delivery area: %w", err)
	}

	return &area, nil
}

// DeleteArea removes a delivery area
func (s *Service) DeleteArea(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Area{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete delivery area: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAreaNotFound
	}
	return nil
}

// SwitchCompany changes which delivery company's region list a store offers
func (s *Service) SwitchCompany(ctx context.Context, store, company string) (*StoreSetting, error) {
	if !s.config.IsValidStore(store) {
		return nil, ErrInvalidStore
	}
	if !s.config.IsValidDeliveryCompany(company) {
		return nil, ErrInvalidCompany
	}

	setting := StoreSetting{StoreName: store, Company: company}
	err := s.db.WithContext(ctx).
		Where(StoreSetting{StoreName: store}).
		Assign(StoreSetting{Company: company}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to switch delivery company: %w", err)
	}

	return &setting, nil
}

// activeCompany returns the store's configured delivery company, creating
// the setting with the default company on first use.
func (s *Service) activeCompany(ctx context.Context, store string) (string, error) {
	setting := StoreSetting{StoreName: store, Company: s.config.Store.DefaultCompany}
	err := s.db.WithContext(ctx).
		Where(StoreSetting{StoreName: store}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return "", fmt.Errorf("failed to load store settings: %w", err)
	}
	return setting.Company, nil
}
