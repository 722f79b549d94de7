package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/services"
	"github.com/stretchr/testify/assert"
)

// multipartImageRequest builds a multipart form with one "image" file part
func multipartImageRequest(t *testing.T, url, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadPortfolioImage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer mock.Clear()

	provider := createTestProvider(t, db, "auth0|portfolio1")

	router := setupTestRouter()
	router.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)

	req := multipartImageRequest(t, "/providers/me/portfolio", "nails.png", []byte("fake png data"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["s3_key"])
	assert.NotEmpty(t, data["image_url"])

	// Row persisted and file present in storage
	var stored models.PortfolioImage
	assert.NoError(t, db.First(&stored).Error)
	assert.Equal(t, provider.ID, stored.ProviderID)
	assert.True(t, mock.ImageExists(stored.S3Key))
}

func TestUploadPortfolioImage_InvalidFormat(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer mock.Clear()

	provider := createTestProvider(t, db, "auth0|portfolio2")

	router := setupTestRouter()
	router.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)

	req := multipartImageRequest(t, "/providers/me/portfolio", "notes.txt", []byte("not an image"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])

	var count int64
	db.Model(&models.PortfolioImage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUploadPortfolioImage_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	provider := createTestProvider(t, db, "auth0|portfolio3")

	router := setupTestRouter()
	router.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)

	req := httptest.NewRequest(http.MethodPost, "/providers/me/portfolio", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_REQUEST", errorData["code"])
}

func TestUploadPortfolioImage_ClientForbidden(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	client := createTestClient(t, db, "auth0|portfolio4")

	router := setupTestRouter()
	router.POST("/providers/me/portfolio",
		mockAuthMiddleware(client.Auth0ID, client.Role, "token"),
		UploadPortfolioImage)

	req := multipartImageRequest(t, "/providers/me/portfolio", "nails.png", []byte("fake png data"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListPortfolio(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer mock.Clear()

	provider := createTestProvider(t, db, "auth0|portfolio5")

	// Upload through the controller so the mock storage has the file
	uploadRouter := setupTestRouter()
	uploadRouter.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)
	req := multipartImageRequest(t, "/providers/me/portfolio", "set1.jpg", []byte("fake jpg"))
	w := httptest.NewRecorder()
	uploadRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	router := setupTestRouter()
	router.GET("/providers/:id/portfolio", ListPortfolio)

	req = httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/providers/%d/portfolio", provider.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	images := response["data"].([]interface{})
	if assert.Len(t, images, 1) {
		assert.NotEmpty(t, images[0].(map[string]interface{})["image_url"])
	}
}

func TestDeletePortfolioImage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer mock.Clear()

	provider := createTestProvider(t, db, "auth0|portfolio6")

	uploadRouter := setupTestRouter()
	uploadRouter.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)
	req := multipartImageRequest(t, "/providers/me/portfolio", "set2.png", []byte("fake png"))
	w := httptest.NewRecorder()
	uploadRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var image models.PortfolioImage
	db.First(&image)

	router := setupTestRouter()
	router.DELETE("/providers/me/portfolio/:id",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		DeletePortfolioImage)

	req = httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/providers/me/portfolio/%d", image.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	assert.False(t, mock.ImageExists(image.S3Key))
	var count int64
	db.Model(&models.PortfolioImage{}).Where("id = ?", image.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeletePortfolioImage_NotOwned(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	defer mock.Clear()

	owner := createTestProvider(t, db, "auth0|portfolio7")
	other := createTestProvider(t, db, "auth0|portfolio8")

	image := models.PortfolioImage{ProviderID: owner.ID, S3Key: "portfolio/mock_set3.png"}
	db.Create(&image)

	router := setupTestRouter()
	router.DELETE("/providers/me/portfolio/:id",
		mockAuthMiddleware(other.Auth0ID, other.Role, "token"),
		DeletePortfolioImage)

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/providers/me/portfolio/%d", image.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// When startup ran without S3 the image service is never initialized; the
// portfolio endpoints must answer with an envelope instead of panicking.
func TestPortfolioEndpointsWithoutImageService(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	previous := services.GetImageService()
	services.SetImageService(nil)
	defer services.SetImageService(previous)

	provider := createTestProvider(t, db, "auth0|no-s3")

	router := setupTestRouter()
	router.GET("/providers/:id/portfolio", ListPortfolio)
	router.POST("/providers/me/portfolio",
		mockAuthMiddleware(provider.Auth0ID, provider.Role, "token"),
		UploadPortfolioImage)

	t.Run("Public listing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/providers/%d/portfolio", provider.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, false, response["success"])
		errorObj := response["error"].(map[string]interface{})
		assert.Equal(t, "SERVICE_UNAVAILABLE", errorObj["code"])
	})

	t.Run("Upload", func(t *testing.T) {
		req := multipartImageRequest(t, "/providers/me/portfolio", "nails.png", []byte("fake png data"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var count int64
		db.Model(&models.PortfolioImage{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
