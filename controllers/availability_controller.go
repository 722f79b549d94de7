package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/scheduling"
	"github.com/glowbook/glowbook-api/services"
	"github.com/glowbook/glowbook-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AvailabilityWindowInput is one row of the weekly schedule editor
type AvailabilityWindowInput struct {
	DayOfWeek int     `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	IsActive  bool    `json:"is_active"`
	Location  *string `json:"location" binding:"omitempty"`
}

// SaveAvailabilityRequest represents the request body for replacing the
// weekly schedule
type SaveAvailabilityRequest struct {
	Windows []AvailabilityWindowInput `json:"windows" binding:"required,dive"`
}

// GetAvailability handles GET /api/v1/providers/:id/availability - lists a
// provider's active weekly windows
func GetAvailability(c *gin.Context) {
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

	var windows []models.AvailabilityWindow
	if err := db.Where("provider_id = ? AND is_active = ?", provider.ID, true).
		Order("day_of_week").Find(&windows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load availability",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    windows,
	})
}

// SaveAvailability handles PUT /api/v1/providers/me/availability - replaces
// the provider's whole weekly schedule. The previous windows are deleted
// and only the active rows of the submitted schedule are inserted.
func SaveAvailability(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	var req SaveAvailabilityRequest
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

	// Each weekday may appear at most once; the matcher relies on it
	seen := make(map[int]bool)
	for _, w := range req.Windows {
		if seen[w.DayOfWeek] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_WEEKDAY",
					"message": "Each day of the week may have at most one window",
				},
			})
			return
		}
		seen[w.DayOfWeek] = true

		if !scheduling.ValidWindow(w.StartTime, w.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Window times must be HH:MM with start before end",
				},
			})
			return
		}
	}

	windows := make([]models.AvailabilityWindow, 0, len(req.Windows))
	for _, w := range req.Windows {
		if !w.IsActive {
			continue
		}
		windows = append(windows, models.AvailabilityWindow{
			ProviderID: provider.ID,
			DayOfWeek:  w.DayOfWeek,
			StartTime:  w.StartTime,
			EndTime:    w.EndTime,
			IsActive:   true,
			Location:   w.Location,
		})
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", provider.ID).
			Delete(&models.AvailabilityWindow{}).Error; err != nil {
			return err
		}
		if len(windows) == 0 {
			return nil
		}
		return tx.Create(&windows).Error
	})
	if err != nil {
		utils.GetLogger().Error("failed to save availability",
			zap.Uint("provider_id", provider.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save availability",
			},
		})
		return
	}

	services.GetChangeHub().Publish(services.ChangeEvent{
		Resource:   "availability",
		Action:     "updated",
		ProviderID: provider.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    windows,
	})
}

// GetSlots handles GET /api/v1/providers/:id/slots?date=YYYY-MM-DD -
// answers whether the provider is open on the date and which times are
// offered
func GetSlots(c *gin.Context) {
	date := c.Query("date")
	if !scheduling.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DATE",
				"message": "Query parameter 'date' must be YYYY-MM-DD",
			},
		})
		return
	}

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

	var windows []models.AvailabilityWindow
	if err := db.Where("provider_id = ? AND is_active = ?", provider.ID, true).
		Find(&windows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load availability",
			},
		})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"date":      date,
			"available": scheduling.IsDateAvailable(windows, date, now),
			"slots":     scheduling.TimeSlotsFor(windows, date, now),
		},
	})
}
