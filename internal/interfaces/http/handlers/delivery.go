// internal/interfaces/http/handlers/delivery.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/delivery"
	"gorm.io/gorm"
)

// DeliveryHandler handles delivery area endpoints
type DeliveryHandler struct {
	deliveryService *delivery.Service
	config          *config.Config
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(db *gorm.DB, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: delivery.NewService(db, cfg),
		config:          cfg,
	}
}

// SwitchCompanyRequest represents a delivery company switch
type SwitchCompanyRequest struct {
	Store   string `json:"store" binding:"required"`
	Company string `json:"company" binding:"required"`
}

// ListAreas handles GET /delivery/areas?store=X. The storefront uses this to
// populate the wilaya dropdown at checkout.
func (h *DeliveryHandler) ListAreas(c *gin.Context) {
	store := c.Query("store")

	response, err := h.deliveryService.ListAreas(c.Request.Context(), store)
	if err != nil {
		if errors.Is(err, delivery.ErrInvalidStore) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid store name",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve delivery areas",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery areas retrieved successfully",
		"data":    response,
	})
}

// CreateArea handles POST /admin/delivery/areas
func (h *DeliveryHandler) CreateArea(c *gin.Context) {
	var req delivery.CreateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	area, err := h.deliveryService.CreateArea(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrInvalidStore):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store name"})
		case errors.Is(err, delivery.ErrDuplicateArea):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Delivery area created successfully",
		"data":    area,
	})
}

// UpdateArea handles PUT /admin/delivery/areas/:id
func (h *DeliveryHandler) UpdateArea(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid area ID",
		})
		return
	}

	var req delivery.UpdateAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	area, err := h.deliveryService.UpdateArea(c.Request.Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, delivery.ErrAreaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Delivery area not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update delivery area",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery area updated successfully",
		"data":    area,
	})
}

// DeleteArea handles DELETE /admin/delivery/areas/:id
func (h *DeliveryHandler) DeleteArea(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid area ID",
		})
		return
	}

	if err := h.deliveryService.DeleteArea(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, delivery.ErrAreaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Delivery area not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete delivery area",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery area deleted successfully",
	})
}

// SwitchCompany handles PUT /admin/delivery/company
func (h *DeliveryHandler) SwitchCompany(c *gin.Context) {
	var req SwitchCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Store and company are required",
		})
		return
	}

	setting, err := h.deliveryService.SwitchCompany(c.Request.Context(), req.Store, req.Company)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrInvalidStore):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store name"})
		case errors.Is(err, delivery.ErrInvalidCompany):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery company"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch delivery company"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery company switched successfully",
		"data":    setting,
	})
}
