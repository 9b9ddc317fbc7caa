// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/infrastructure/events"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested order does not exist
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned for a status outside the enumerated values
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned for a disallowed status transition
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// transitions is the allowed forward graph: the linear happy path plus
// cancellation from any non-terminal state.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusInDelivery, StatusCanceled},
	StatusInDelivery: {StatusReached, StatusCanceled},
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	producer *events.Producer
}

// NewService creates a new order service. producer may be nil when event
// streaming is disabled.
func NewService(db *gorm.DB, cfg *config.Config, producer *events.Producer) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		producer: producer,
	}
}

// Create persists a new order. Totals are recomputed from the items and the
// delivery price regardless of what the submitting client claimed, and the
// status is forced to pending.
func (s *Service) Create(ctx context.Context, o *Order) (*Order, error) {
	totals := ComputeTotals(o.Items, o.DeliveryPrice)
	o.IsBulk = totals.IsBulk
	o.Subtotal = totals.Subtotal
	o.TotalPrice = totals.TotalPrice
	o.Status = StatusPending

	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(ctx, "order.created", o)
	return o, nil
}

// List retrieves all orders, newest first
func (s *Service) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// Get retrieves a single order by ID
func (s *Service) Get(ctx context.Context, id uint) (*Order, error) {
	var o Order
	result := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&o)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// SetStatus transitions an order to a new status. Setting the current status
// again is a no-op: no write is issued and UpdatedAt stays untouched.
func (s *Service) SetStatus(ctx context.Context, id uint, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == status {
		return o, nil
	}

	if !allowedTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	if err := s.db.WithContext(ctx).Model(o).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	o.Status = status

	s.publish(ctx, "order.status_changed", o)
	return o, nil
}

func allowedTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// publish emits an order event best-effort; a broker outage never fails the
// request that triggered it.
func (s *Service) publish(ctx context.Context, eventType string, o *Order) {
	if s.producer == nil {
		return
	}

	event := events.OrderEvent{
		Type:    eventType,
		OrderID: o.ID,
		Store:   o.Store,
		Status:  string(o.Status),
		IsBulk:  o.IsBulk,
		At:      time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithField("order_id", o.ID).Warn("Failed to publish order event")
	}
}
