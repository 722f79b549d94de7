package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/middleware"
	"github.com/glowbook/glowbook-api/models"
)

// currentUser resolves the authenticated account for this request from the
// validated JWT. When resolution fails the error response has already been
// written and the second return value is false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// currentProvider resolves the authenticated account and requires it to be
// an artist or salon
func currentProvider(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	if !user.IsProvider() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only artists and salons can perform this action",
			},
		})
		return nil, false
	}

	return user, true
}
