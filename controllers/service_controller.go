package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
)

// CreateServiceRequest represents the request body for creating a service
type CreateServiceRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description" binding:"omitempty"`
	Price           float64 `json:"price" binding:"gte=0"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
	IsVisible       *bool   `json:"is_visible" binding:"omitempty"`
}

// UpdateServiceRequest represents the request body for updating a service
type UpdateServiceRequest struct {
	Title           *string  `json:"title" binding:"omitempty"`
	Description     *string  `json:"description" binding:"omitempty"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	IsVisible       *bool    `json:"is_visible" binding:"omitempty"`
}

// ListProviderServices handles GET /api/v1/providers/:id/services - lists
// a provider's visible services
func ListProviderServices(c *gin.Context) {
	db := config.GetDB()

	var provider models.User
	if err := db.First(&provider, c.Param("id")).Error; err != nil || !provider.IsProvider() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROVIDER_NOT_FOUND",
				"message": "Provider not found",
			},
		})
		return
	}

	var serviceList []models.Service
	if err := db.Where("provider_id = ? AND is_visible = ?", provider.ID, true).
		Order("title").Find(&serviceList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceList,
	})
}

// ListMyServices handles GET /api/v1/providers/me/services - lists all of
// the authenticated provider's services, hidden ones included
func ListMyServices(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var serviceList []models.Service
	if err := db.Where("provider_id = ?", provider.ID).
		Order("title").Find(&serviceList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceList,
	})
}

// CreateService handles POST /api/v1/providers/me/services
func CreateService(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	service := models.Service{
		ProviderID:      provider.ID,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsVisible:       visible,
	}

	db := config.GetDB()
	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/providers/me/services/:id
func UpdateService(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("provider_id = ?", provider.ID).First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    service,
		})
		return
	}

	if err := db.Model(&service).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteService handles DELETE /api/v1/providers/me/services/:id
func DeleteService(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Where("provider_id = ?", provider.ID).First(&service, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}
