// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/cart"
	"github.com/your-org/boutique-backend/internal/domain/product"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. Carts are keyed by a client session ID
// carried in the X-Cart-Session header (or a fallback cookie for browsers
// without storefront JS).
type CartHandler struct {
	cartService    *cart.Service
	productService *product.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cart.NewService(redisClient, cfg),
		productService: product.NewService(db, cfg),
		config:         cfg,
	}
}

// AddItemRequest represents adding a product variant to the cart
type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// LineKeyRequest identifies one cart line
type LineKeyRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

// SetQuantityRequest represents a quantity change for one line
type SetQuantityRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	response, err := h.cartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    response,
	})
}

// AddItem handles POST /cart/items. The line snapshot (price, image, stock
// ceiling) is built server-side from the catalog, never from the client.
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, available, err := h.productService.VariantStock(c.Request.Context(), req.ProductID, req.Color, req.Size)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) || errors.Is(err, product.ErrVariantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product variant not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return
	}

	if available < 1 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "This variant is sold out",
		})
		return
	}

	line := cart.Line{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       firstImageURL(p),
		Color:       req.Color,
		Size:        req.Size,
		Quantity:    req.Quantity,
		MaxQuantity: available,
	}

	response, err := h.cartService.Add(c.Request.Context(), sessionID, line)
	if err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Requested quantity exceeds available stock",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    response,
	})
}

// UpdateQuantity handles PUT /cart/items
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	key := cart.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
	response, err := h.cartService.SetQuantity(c.Request.Context(), sessionID, key, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated",
		"data":    response,
	})
}

// RemoveItem handles DELETE /cart/items
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req LineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	key := cart.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
	response, err := h.cartService.Remove(c.Request.Context(), sessionID, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    response,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// GetCount handles GET /cart/count, backing the storefront badge
func (h *CartHandler) GetCount(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	count, err := h.cartService.Count(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved",
		"data":    gin.H{"count": count},
	})
}

// getOrCreateSessionID resolves the cart session: header first, then cookie,
// minting a new one when the client has neither.
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	if sessionID := c.GetHeader("X-Cart-Session"); sessionID != "" {
		return sessionID
	}

	sessionID, err := c.Cookie("cart_session")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		maxAge := int(h.config.Store.CartTTL.Seconds())
		c.SetCookie("cart_session", sessionID, maxAge, "/", "", false, true)
	}

	return sessionID
}

func firstImageURL(p *product.Product) string {
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
