// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boutique-backend/internal/config"
)

var (
	// ErrInsufficientStock is returned when a merge would exceed the line's
	// stock ceiling
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
	// ErrSessionRequired is returned when no cart session is supplied
	ErrSessionRequired = errors.New("cart session ID required")
)

// UpdateChannel is the Redis pub/sub channel carrying cart change
// notifications for the storefront badge.
const UpdateChannel = "cart:updates"

// UpdateNotification is published after every cart mutation
type UpdateNotification struct {
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
}

// Service handles cart state for storefront sessions. Carts live in Redis
// keyed by session so they survive page reloads; no server-side cart entity
// exists beyond that.
type Service struct {
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		config:      cfg,
	}
}

// Get retrieves the cart for a session, empty if none exists yet
func (s *Service) Get(ctx context.Context, sessionID string) (*Response, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(sessionCart), nil
}

// Add puts a line into the cart. A line sharing the (product, color, size)
// triple is merged; a merged quantity above the stock ceiling is rejected.
func (s *Service) Add(ctx context.Context, sessionID string, line Line) (*Response, error) {
	if line.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if line.MaxQuantity > 0 && line.Quantity > line.MaxQuantity {
		return nil, ErrInsufficientStock
	}

	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := LineKey{ProductID: line.ProductID, Color: line.Color, Size: line.Size}
	merged := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].Matches(key) {
			newQuantity := sessionCart.Items[i].Quantity + line.Quantity
			if newQuantity > sessionCart.Items[i].MaxQuantity {
				return nil, ErrInsufficientStock
			}
			sessionCart.Items[i].Quantity = newQuantity
			merged = true
			break
		}
	}

	if !merged {
		line.AddedAt = time.Now().UTC()
		sessionCart.Items = append(sessionCart.Items, line)
	}

	if err := s.save(ctx, sessionID, sessionCart); err != nil {
		return nil, err
	}
	return s.toResponse(sessionCart), nil
}

// SetQuantity updates a line's quantity. Out-of-range values (below 1 or
// above the line's stock ceiling) are silently ignored: the UI disables
// those controls, but the state operation stays defensive on its own.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, key LineKey, quantity int) (*Response, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].Matches(key) {
			if quantity >= 1 && quantity <= sessionCart.Items[i].MaxQuantity {
				sessionCart.Items[i].Quantity = quantity
				changed = true
			}
			break
		}
	}

	if changed {
		if err := s.save(ctx, sessionID, sessionCart); err != nil {
			return nil, err
		}
	}
	return s.toResponse(sessionCart), nil
}

// Remove deletes a line from the cart
func (s *Service) Remove(ctx context.Context, sessionID string, key LineKey) (*Response, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range sessionCart.Items {
		if sessionCart.Items[i].Matches(key) {
			sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			if err := s.save(ctx, sessionID, sessionCart); err != nil {
				return nil, err
			}
			break
		}
	}

	return s.toResponse(sessionCart), nil
}

// Clear removes the whole cart. Checkout calls this exactly once, after the
// order has been confirmed persisted.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	if err := s.redisClient.Del(ctx, s.cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.notify(ctx, sessionID, 0)
	return nil
}

// Count returns the total quantity across all lines, for the cart badge
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range sessionCart.Items {
		count += item.Quantity
	}
	return count, nil
}

// Private helper methods

func (s *Service) cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	data, err := s.redisClient.Get(ctx, s.cartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []Line{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(data), &sessionCart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return &sessionCart, nil
}

func (s *Service) save(ctx context.Context, sessionID string, sessionCart *SessionCart) error {
	sessionCart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(sessionCart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.cartKey(sessionID), data, s.config.Store.CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	count := 0
	for _, item := range sessionCart.Items {
		count += item.Quantity
	}
	s.notify(ctx, sessionID, count)
	return nil
}

// notify publishes the badge-count signal. Best-effort: a pub/sub failure
// never fails the mutation itself.
func (s *Service) notify(ctx context.Context, sessionID string, count int) {
	payload, err := json.Marshal(UpdateNotification{SessionID: sessionID, ItemCount: count})
	if err != nil {
		return
	}
	if err := s.redisClient.Publish(ctx, UpdateChannel, payload).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Debug("Failed to publish cart update")
	}
}

func (s *Service) toResponse(sessionCart *SessionCart) *Response {
	totals := Totals{ItemCount: len(sessionCart.Items)}
	for _, item := range sessionCart.Items {
		totals.TotalQuantity += item.Quantity
		totals.Subtotal += item.Price * int64(item.Quantity)
	}

	return &Response{
		SessionID: sessionCart.SessionID,
		Items:     sessionCart.Items,
		Totals:    totals,
		CreatedAt: sessionCart.CreatedAt,
		UpdatedAt: sessionCart.UpdatedAt,
	}
}
