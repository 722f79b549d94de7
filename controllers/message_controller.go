package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// bookingParticipant loads the booking from the :id route parameter and
// checks the user is its requester or its provider. Writes the error
// response itself when the check fails.
func bookingParticipant(c *gin.Context, user *models.User) (*models.Booking, bool) {
	db := config.GetDB()
	var bk models.Booking
	if err := db.First(&bk, c.Param("id")).Error; err != nil {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return nil, false
	}

	if bk.RequesterID != user.ID && bk.ProviderID != user.ID {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to message on this booking",
			},
		})
		return nil, false
	}

	return &bk, true
}

// SendMessage handles POST /api/v1/bookings/:id/messages - sends a message
// on a booking conversation
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	bk, ok := bookingParticipant(c, user)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
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
	message := models.Message{
		BookingID: bk.ID,
		SenderID:  user.ID,
		Text:      req.Text,
	}

	if err := db.Create(&message).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create message",
			},
		})
		return
	}

	// Load the sender relationship to return complete data
	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load message details",
			},
		})
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/bookings/:id/messages - lists the
// conversation on a booking in chronological order
func ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	bk, ok := bookingParticipant(c, user)
	if !ok {
		return
	}

	db := config.GetDB()
	var messages []models.Message
	if err := db.Where("booking_id = ?", bk.ID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
