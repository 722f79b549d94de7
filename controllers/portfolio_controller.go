package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/services"
	"github.com/glowbook/glowbook-api/utils"
	"go.uber.org/zap"
)

// imageServiceOrUnavailable resolves the image service, answering 503 when
// startup ran without S3 and portfolio storage is disabled.
func imageServiceOrUnavailable(c *gin.Context) (services.ImageService, bool) {
	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "Portfolio storage is not available",
			},
		})
		return nil, false
	}
	return imageService, true
}

// UploadPortfolioImage handles POST /api/v1/providers/me/portfolio -
// uploads a portfolio photo for the authenticated provider
func UploadPortfolioImage(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Form field 'image' is required",
			},
		})
		return
	}

	imageService, ok := imageServiceOrUnavailable(c)
	if !ok {
		return
	}

	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		utils.GetLogger().Error("portfolio upload failed",
			zap.Uint("provider_id", provider.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload image",
			},
		})
		return
	}

	image := models.PortfolioImage{
		ProviderID: provider.ID,
		S3Key:      s3Key,
	}
	if caption := c.PostForm("caption"); caption != "" {
		image.Caption = &caption
	}

	db := config.GetDB()
	if err := db.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save portfolio image",
			},
		})
		return
	}

	if url, err := imageService.GetImageURL(image.S3Key); err == nil {
		image.ImageURL = &url
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    image,
	})
}

// ListPortfolio handles GET /api/v1/providers/:id/portfolio - lists a
// provider's portfolio with presigned image URLs
func ListPortfolio(c *gin.Context) {
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

	var images []models.PortfolioImage
	if err := db.Where("provider_id = ?", provider.ID).
		Order("created_at DESC").
		Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load portfolio",
			},
		})
		return
	}

	imageService, ok := imageServiceOrUnavailable(c)
	if !ok {
		return
	}

	for i := range images {
		if url, err := imageService.GetImageURL(images[i].S3Key); err == nil {
			images[i].ImageURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    images,
	})
}

// DeletePortfolioImage handles DELETE /api/v1/providers/me/portfolio/:id -
// removes a portfolio photo and its stored file
func DeletePortfolioImage(c *gin.Context) {
	provider, ok := currentProvider(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var image models.PortfolioImage
	if err := db.Where("provider_id = ?", provider.ID).First(&image, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Portfolio image not found",
			},
		})
		return
	}

	imageService, ok := imageServiceOrUnavailable(c)
	if !ok {
		return
	}

	if err := imageService.DeleteImage(image.S3Key); err != nil {
		utils.GetLogger().Warn("failed to delete stored image",
			zap.String("s3_key", image.S3Key), zap.Error(err))
	}

	if err := db.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete portfolio image",
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
