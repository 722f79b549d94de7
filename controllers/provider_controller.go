package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
)

// UpdateProviderSettingsRequest represents the request body for updating
// booking settings
type UpdateProviderSettingsRequest struct {
	AcceptsBookings *bool `json:"accepts_bookings" binding:"required"`
}

// GetProvider handles GET /api/v1/providers/:id - public provider profile
// with visible services and active availability windows
func GetProvider(c *gin.Context) {
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

	var visibleServices []models.Service
	if err := db.Where("provider_id = ? AND is_visible = ?", provider.ID, true).
		Order("title").Find(&visibleServices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load provider services",
			},
		})
		return
	}

	var windows []models.AvailabilityWindow
	if err := db.Where("provider_id = ? AND is_active = ?", provider.ID, true).
		Order("day_of_week").Find(&windows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load provider availability",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"provider":     provider,
			"services":     visibleServices,
			"availability": windows,
		},
	})
}

// UpdateProviderSettings handles PUT /api/v1/providers/me/settings -
// toggles whether the provider accepts new booking requests
func UpdateProviderSettings(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	var req UpdateProviderSettingsRequest
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

	db := config.GetDB()
	if err := db.Model(provider).Update("accepts_bookings", *req.AcceptsBookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update booking settings",
			},
		})
		return
	}

	provider.AcceptsBookings = *req.AcceptsBookings
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    provider,
	})
}
