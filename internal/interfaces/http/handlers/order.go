// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/checkout"
	"github.com/your-org/boutique-backend/internal/domain/order"
	"github.com/your-org/boutique-backend/internal/infrastructure/events"
	"github.com/your-org/boutique-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints: public submission plus the admin
// back-office lifecycle.
type OrderHandler struct {
	checkoutService *checkout.Service
	orderService    *order.Service
	pdfService      *pdf.Service
	config          *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, producer *events.Producer) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkout.NewService(db, redisClient, cfg, producer),
		orderService:    order.NewService(db, cfg, producer),
		pdfService:      pdf.NewService(cfg),
		config:          cfg,
	}
}

// SetStatusRequest represents an order status change
type SetStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// SubmitOrder handles POST /orders. The cart session comes from the same
// header/cookie pair the cart endpoints use.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	sessionID := c.GetHeader("X-Cart-Session")
	if sessionID == "" {
		sessionID, _ = c.Cookie("cart_session")
	}
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Your cart is empty",
		})
		return
	}

	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.checkoutService.Submit(c.Request.Context(), sessionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		case errors.Is(err, checkout.ErrRegionRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select your wilaya"})
		case errors.Is(err, checkout.ErrAddressRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required for home delivery"})
		case errors.Is(err, checkout.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": response.Message,
		"data":    response,
	})
}

// ListOrders handles GET /admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /admin/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	o, err := h.orderService.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// SetOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status is required",
		})
		return
	}

	o, err := h.orderService.SetStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// GetOrderSlip handles GET /admin/orders/:id/slip, returning a printable PDF
func (h *OrderHandler) GetOrderSlip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	o, err := h.orderService.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	buf, err := h.pdfService.GenerateOrderSlip(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate order slip",
		})
		return
	}

	filename := fmt.Sprintf("order-%06d.pdf", o.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
