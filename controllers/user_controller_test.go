package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/config"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/services"
	"github.com/stretchr/testify/assert"
)

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's
// /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := authHeader[7:]

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	tests := []struct {
		name           string
		auth0ID        string
		email          string
		userName       string
		role           string
		accessToken    string
		expectedStatus int
		expectedCode   string
		expectedRole   string
	}{
		{
			name:           "Create client user successfully",
			auth0ID:        "auth0|123456",
			email:          "maya@example.com",
			userName:       "Maya Chen",
			role:           "client",
			accessToken:    "token-123456",
			expectedStatus: http.StatusCreated,
			expectedRole:   "client",
		},
		{
			name:           "Create artist user successfully",
			auth0ID:        "auth0|artist789",
			email:          "ava@example.com",
			userName:       "Ava Lane",
			role:           "artist",
			accessToken:    "token-artist789",
			expectedStatus: http.StatusCreated,
			expectedRole:   "artist",
		},
		{
			name:           "Create salon user successfully",
			auth0ID:        "auth0|salon456",
			email:          "salon@example.com",
			userName:       "Polished Studio",
			role:           "salon",
			accessToken:    "token-salon456",
			expectedStatus: http.StatusCreated,
			expectedRole:   "salon",
		},
		{
			name:           "Default to client when role claim is empty",
			auth0ID:        "auth0|norole",
			email:          "norole@example.com",
			userName:       "No Role User",
			role:           "",
			accessToken:    "token-norole",
			expectedStatus: http.StatusCreated,
			expectedRole:   "client",
		},
		{
			name:           "Default to client for an unknown role claim",
			auth0ID:        "auth0|weirdrole",
			email:          "weird@example.com",
			userName:       "Weird Role",
			role:           "admin",
			accessToken:    "token-weirdrole",
			expectedStatus: http.StatusCreated,
			expectedRole:   "client",
		},
		{
			name:           "Fail with missing email",
			auth0ID:        "auth0|noemail",
			email:          "",
			userName:       "No Email User",
			role:           "client",
			accessToken:    "token-noemail",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_EMAIL",
		},
		{
			name:           "Fail with missing name",
			auth0ID:        "auth0|noname",
			email:          "noname@example.com",
			userName:       "",
			role:           "client",
			accessToken:    "token-noname",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db.Exec("DELETE FROM users")

			userInfoMap := map[string]*services.Auth0UserInfo{
				tt.accessToken: {
					Sub:   tt.auth0ID,
					Email: tt.email,
					Name:  tt.userName,
				},
			}
			mockServer := setupMockAuth0Server(userInfoMap)
			defer mockServer.Close()

			testConfig := &config.Config{
				Auth0Domain: mockServer.URL, // http:// URL is passed through for tests
			}
			originalConfig := config.GetConfig()
			defer config.SetConfig(originalConfig)
			config.SetConfig(testConfig)

			router := setupTestRouter()
			router.POST("/users", mockAuthMiddleware(tt.auth0ID, tt.role, tt.accessToken), CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Response body: %s", w.Body.String())

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedStatus == http.StatusCreated {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, tt.email, data["email"])
				assert.Equal(t, tt.userName, data["name"])
				assert.Equal(t, tt.auth0ID, data["auth0_id"])
				assert.Equal(t, tt.expectedRole, data["role"])
				assert.Equal(t, true, data["accepts_bookings"])
			} else {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
			}
		})
	}
}

func TestCreateUser_DuplicateAuth0ID(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{
		Auth0ID: "auth0|duplicate",
		Name:    "First User",
		Email:   "first@example.com",
		Role:    models.RoleClient,
	}
	db.Create(&user)

	accessToken := "token-duplicate"
	userInfoMap := map[string]*services.Auth0UserInfo{
		accessToken: {
			Sub:   "auth0|duplicate",
			Email: "second@example.com",
			Name:  "Second User",
		},
	}
	mockServer := setupMockAuth0Server(userInfoMap)
	defer mockServer.Close()

	testConfig := &config.Config{Auth0Domain: mockServer.URL}
	originalConfig := config.GetConfig()
	defer config.SetConfig(originalConfig)
	config.SetConfig(testConfig)

	router := setupTestRouter()
	router.POST("/users", mockAuthMiddleware("auth0|duplicate", "client", accessToken), CreateUser)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_EXISTS", errorData["code"])
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.GET("/users/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|testuser")
		GetMyProfile(c)
	})

	user := models.User{
		Auth0ID: "auth0|testuser",
		Name:    "Test User",
		Email:   "test@example.com",
		Role:    models.RoleClient,
	}
	db.Create(&user)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "test@example.com", data["email"])
	assert.Equal(t, "client", data["role"])
}

func TestGetMyProfile_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.GET("/users/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|nonexistent")
		GetMyProfile(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_NOT_FOUND", errorData["code"])
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.PATCH("/users/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|testuser")
		UpdateMyProfile(c)
	})

	user := models.User{
		Auth0ID: "auth0|testuser",
		Name:    "Old Name",
		Email:   "old@example.com",
		Role:    models.RoleArtist,
	}
	db.Create(&user)

	bio := "Nail artist, 8 years in"
	payload := UpdateUserRequest{
		Name: "New Name",
		Bio:  &bio,
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "old@example.com", data["email"]) // email unchanged
	assert.Equal(t, "New Name", data["name"])
	assert.Equal(t, bio, data["bio"])
}

func TestUpdateMyProfile_InvalidEmail(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.PATCH("/users/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|testuser")
		UpdateMyProfile(c)
	})

	user := models.User{
		Auth0ID: "auth0|testuser",
		Name:    "Test User",
		Email:   "test@example.com",
		Role:    models.RoleClient,
	}
	db.Create(&user)

	payload := UpdateUserRequest{Email: "invalid-email"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errorData["code"])
}

func TestUpdateMyProfile_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.PATCH("/users/me", func(c *gin.Context) {
		c.Set("user_id", "auth0|testuser")
		UpdateMyProfile(c)
	})

	user1 := models.User{
		Auth0ID: "auth0|testuser",
		Name:    "User One",
		Email:   "user1@example.com",
		Role:    models.RoleClient,
	}
	db.Create(&user1)

	user2 := models.User{
		Auth0ID: "auth0|otheruser",
		Name:    "User Two",
		Email:   "user2@example.com",
		Role:    models.RoleClient,
	}
	db.Create(&user2)

	payload := UpdateUserRequest{Email: "user2@example.com"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "EMAIL_EXISTS", errorData["code"])
}
