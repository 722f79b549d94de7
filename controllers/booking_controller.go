package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/booking"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/scheduling"
	"github.com/glowbook/glowbook-api/services"
	"github.com/glowbook/glowbook-api/utils"
	"go.uber.org/zap"
)

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ProviderID uint   `json:"provider_id" binding:"required"`
	ServiceID  uint   `json:"service_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Note       string `json:"note" binding:"omitempty"`
}

// UpdateBookingStatusRequest represents the request body for a lifecycle
// transition
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateBooking handles POST /api/v1/bookings - runs the request flow and
// creates a booking in pending status
func CreateBooking(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
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
	var provider models.User
	if err := db.First(&provider, req.ProviderID).Error; err != nil || !provider.IsProvider() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROVIDER_NOT_FOUND",
				"message": "Provider not found",
			},
		})
		return
	}

	if provider.ID == requester.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SELF_BOOKING",
				"message": "You cannot book yourself",
			},
		})
		return
	}

	var serviceList []models.Service
	if err := db.Where("provider_id = ?", provider.ID).Find(&serviceList).Error; err != nil {
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
	if err := db.Where("provider_id = ?", provider.ID).Find(&windows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load provider availability",
			},
		})
		return
	}

	builder, err := booking.NewRequestBuilder(provider, serviceList, windows)
	if err != nil {
		code := "BOOKINGS_CLOSED"
		switch {
		case errors.Is(err, booking.ErrNoVisibleServices):
			code = "NO_VISIBLE_SERVICES"
		case errors.Is(err, booking.ErrNoActiveWindows):
			code = "NO_ACTIVE_AVAILABILITY"
		}
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Walk the request flow steps with the submitted values, stopping at
	// the first rejected step
	steps := []func() error{
		func() error { return builder.SelectService(req.ServiceID) },
		func() error { return builder.SelectDate(req.Date) },
		func() error { return builder.SelectTime(req.Time) },
		func() error { return builder.SetNote(req.Note) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
	}

	var created models.Booking
	err = builder.Confirm(func(draft booking.Draft) error {
		created = models.Booking{
			RequesterID:   requester.ID,
			ProviderID:    draft.ProviderID,
			ServiceID:     draft.ServiceID,
			RequestedDate: draft.Date,
			RequestedTime: draft.Time,
			Status:        booking.StatusPending.String(),
		}
		if draft.Note != "" {
			note := draft.Note
			created.Note = &note
		}
		return db.Create(&created).Error
	})
	if err != nil {
		utils.GetLogger().Error("failed to create booking",
			zap.Uint("provider_id", provider.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to send booking request",
			},
		})
		return
	}

	// Load the relationships to return complete data
	if err := db.Preload("Requester").Preload("Provider").Preload("Service").
		First(&created, created.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	services.GetChangeHub().Publish(services.ChangeEvent{
		Resource:   "bookings",
		Action:     "created",
		ProviderID: provider.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// ListMyBookings handles GET /api/v1/bookings - lists the authenticated
// user's booking requests
func ListMyBookings(c *gin.Context) {
	requester, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var bookings []models.Booking
	if err := db.Where("requester_id = ?", requester.ID).
		Preload("Provider").Preload("Service").
		Order("requested_date, requested_time").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load bookings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
	})
}

// GetBooking handles GET /api/v1/bookings/:id - booking detail, visible to
// its requester and its provider only
func GetBooking(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var bk models.Booking
	if err := db.Preload("Requester").Preload("Provider").Preload("Service").
		First(&bk, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	if bk.RequesterID != user.ID && bk.ProviderID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bk,
	})
}

// ListProviderBookings handles GET /api/v1/providers/me/bookings - lists
// the provider's bookings with optional date and group filters. Groups are
// derived from the one loaded collection, never stored.
func ListProviderBookings(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date != "" && !scheduling.ValidDate(date) {
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
	var bookings []models.Booking
	if err := db.Where("provider_id = ?", provider.ID).
		Preload("Requester").Preload("Service").
		Order("requested_date, requested_time").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load bookings",
			},
		})
		return
	}

	if date != "" {
		bookings = bookingsForDate(bookings, date)
	}

	group := c.Query("group")
	grouped, known := groupBookings(bookings, group, time.Now())
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_GROUP",
				"message": "Query parameter 'group' must be one of today, pending, upcoming, all",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    grouped,
	})
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status - applies
// one lifecycle transition. Transitions out of completed or cancelled are
// rejected and the stored status is left unchanged.
func UpdateBookingStatus(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var bk models.Booking
	if err := db.Where("provider_id = ?", provider.ID).First(&bk, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	var req UpdateBookingStatusRequest
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

	next := booking.Status(req.Status)
	if !next.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown booking status",
			},
		})
		return
	}

	applied, err := booking.Transition(booking.Status(bk.Status), next)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Booking cannot move from " + bk.Status + " to " + next.String(),
			},
		})
		return
	}

	if err := db.Model(&bk).Update("status", applied.String()).Error; err != nil {
		utils.GetLogger().Error("failed to update booking status",
			zap.Uint("booking_id", bk.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update booking status",
			},
		})
		return
	}

	services.GetChangeHub().Publish(services.ChangeEvent{
		Resource:   "bookings",
		Action:     "updated",
		ProviderID: provider.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bk,
	})
}

// DeleteBooking handles DELETE /api/v1/bookings/:id - removes a booking
// from the provider's list
func DeleteBooking(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var bk models.Booking
	if err := db.Where("provider_id = ?", provider.ID).First(&bk, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	if err := db.Delete(&bk).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete booking",
			},
		})
		return
	}

	services.GetChangeHub().Publish(services.ChangeEvent{
		Resource:   "bookings",
		Action:     "deleted",
		ProviderID: provider.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted": true,
		},
	})
}

// bookingsForDate filters to exact calendar-day matches
func bookingsForDate(bookings []models.Booking, date string) []models.Booking {
	matched := make([]models.Booking, 0)
	for _, b := range bookings {
		if b.RequestedDate == date {
			matched = append(matched, b)
		}
	}
	return matched
}

// groupBookings derives the named view over the loaded collection. The
// second return value is false for an unknown group name.
func groupBookings(bookings []models.Booking, group string, now time.Time) ([]models.Booking, bool) {
	today := scheduling.CanonicalDate(now)
	nowTime := scheduling.CanonicalTime(now)

	switch group {
	case "", "all":
		return bookings, true
	case "today":
		return bookingsForDate(bookings, today), true
	case "pending":
		matched := make([]models.Booking, 0)
		for _, b := range bookings {
			if b.Status == booking.StatusPending.String() {
				matched = append(matched, b)
			}
		}
		return matched, true
	case "upcoming":
		matched := make([]models.Booking, 0)
		for _, b := range bookings {
			if b.Status != booking.StatusConfirmed.String() {
				continue
			}
			if b.RequestedDate > today || (b.RequestedDate == today && b.RequestedTime > nowTime) {
				matched = append(matched, b)
			}
		}
		return matched, true
	default:
		return nil, false
	}
}
