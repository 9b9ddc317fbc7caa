// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/cart"
	"github.com/your-org/boutique-backend/internal/domain/delivery"
	"github.com/your-org/boutique-backend/internal/domain/order"
	"github.com/your-org/boutique-backend/internal/infrastructure/events"
	"gorm.io/gorm"
)

var (
	// ErrEmptyCart is returned when submitting with no cart lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrRegionRequired is returned when no wilaya was chosen
	ErrRegionRequired = errors.New("wilaya is required")
	// ErrAddressRequired is returned for home delivery without an address
	ErrAddressRequired = errors.New("address is required for home delivery")
	// ErrMissingFields is returned when required contact fields are blank
	ErrMissingFields = errors.New("please fill all required fields: name, phone, store, delivery type")
)

// Service assembles and validates order submissions. It snapshots the cart,
// resolves the delivery price server-side, derives the authoritative totals
// and persists the order before clearing the cart.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	carts       *cart.Service
	deliveries  *delivery.Service
	orders      *order.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, producer *events.Producer) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		carts:       cart.NewService(redisClient, cfg),
		deliveries:  delivery.NewService(db, cfg),
		orders:      order.NewService(db, cfg, producer),
	}
}

// SubmitRequest represents an order submission
type SubmitRequest struct {
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Wilaya       string             `json:"wilaya"`
	Address      string             `json:"address"`
	DeliveryType order.DeliveryType `json:"delivery_type"`
	Store        string             `json:"store"`

	// SubmissionID is an optional client-generated UUID used to deduplicate
	// retried submissions within a short window.
	SubmissionID string `json:"submission_id"`
}

// SubmitResponse carries the created order's ID and the customer-facing message
type SubmitResponse struct {
	OrderID uint   `json:"order_id"`
	IsBulk  bool   `json:"is_bulk"`
	Message string `json:"message"`
}

// Submit validates the submission and creates the order. Preconditions are
// checked in a fixed order, first failure wins: empty cart, missing region,
// missing address for home delivery, then remaining required fields.
//
// The replay check runs before anything else. A retry after a timeout arrives
// with the cart already cleared by the first attempt, so it must short-circuit
// to the original order before the empty-cart check can reject it.
func (s *Service) Submit(ctx context.Context, sessionID string, req *SubmitRequest) (*SubmitResponse, error) {
	if orderID, ok := s.replayedSubmission(ctx, req.SubmissionID); ok {
		existing, err := s.orders.Get(ctx, orderID)
		if err == nil {
			return s.response(existing), nil
		}
	}

	cartResponse, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(cartResponse.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if strings.TrimSpace(req.Wilaya) == "" {
		return nil, ErrRegionRequired
	}

	if req.DeliveryType == order.DeliveryHome && strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}

	customerName := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.Phone)
	if customerName == "" || phone == "" || req.Store == "" || !req.DeliveryType.Valid() {
		return nil, ErrMissingFields
	}
	if !s.config.IsValidStore(req.Store) {
		return nil, fmt.Errorf("%w: unknown store %q", ErrMissingFields, req.Store)
	}

	// The delivery price is resolved server-side, never taken from the
	// client. A missing area resolves to 0; the storefront blocks checkout
	// for such stores up front via the areas listing.
	var deliveryPrice int64
	if price, err := s.deliveries.Resolve(ctx, req.Store, req.Wilaya); err == nil {
		deliveryPrice = price.ForType(string(req.DeliveryType))
	} else if !errors.Is(err, delivery.ErrNoDelivery) {
		return nil, fmt.Errorf("failed to resolve delivery price: %w", err)
	}

	address := ""
	if req.DeliveryType == order.DeliveryHome {
		address = strings.TrimSpace(req.Address)
	}

	o := &order.Order{
		CustomerName:  customerName,
		Phone:         phone,
		Wilaya:        req.Wilaya,
		Address:       address,
		DeliveryType:  req.DeliveryType,
		Store:         req.Store,
		DeliveryPrice: deliveryPrice,
		Items:         snapshotItems(cartResponse.Items),
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	s.rememberSubmission(ctx, req.SubmissionID, created.ID)

	// Clear the cart only now that the order is confirmed persisted, so a
	// failed submission never loses the customer's cart.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		logrus.WithError(err).WithField("order_id", created.ID).Warn("Failed to clear cart after order creation")
	}

	return s.response(created), nil
}

// Private helper methods

// snapshotItems copies cart lines into order items; the order never holds a
// live reference to products or the cart.
func snapshotItems(lines []cart.Line) []order.Item {
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, order.Item{
			ProductID:   line.ProductID,
			Name:        line.Name,
			Price:       line.Price,
			Image:       line.Image,
			Color:       line.Color,
			Size:        line.Size,
			Quantity:    line.Quantity,
			MaxQuantity: line.MaxQuantity,
		})
	}
	return items
}

func (s *Service) response(o *order.Order) *SubmitResponse {
	message := "Order placed successfully! We will call you soon to confirm."
	if o.IsBulk {
		message = "Bulk order received! Our team will call you to confirm price & delivery."
	}
	return &SubmitResponse{
		OrderID: o.ID,
		IsBulk:  o.IsBulk,
		Message: message,
	}
}

func (s *Service) submissionKey(submissionID string) string {
	return fmt.Sprintf("checkout:submission:%s", submissionID)
}

func (s *Service) replayedSubmission(ctx context.Context, submissionID string) (uint, bool) {
	if _, err := uuid.Parse(submissionID); err != nil {
		return 0, false
	}

	value, err := s.redisClient.Get(ctx, s.submissionKey(submissionID)).Result()
	if err != nil {
		return 0, false
	}

	orderID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(orderID), true
}

func (s *Service) rememberSubmission(ctx context.Context, submissionID string, orderID uint) {
	if _, err := uuid.Parse(submissionID); err != nil {
		return
	}

	window := s.config.Store.SubmissionWindow
	if window <= 0 {
		window = 15 * time.Minute
	}

	key := s.submissionKey(submissionID)
	if err := s.redisClient.Set(ctx, key, strconv.FormatUint(uint64(orderID), 10), window).Err(); err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Debug("Failed to record submission key")
	}
}
