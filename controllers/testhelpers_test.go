package controllers

import (
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/glowbook/glowbook-api/middleware"
	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/scheduling"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.AvailabilityWindow{},
		&models.Booking{},
		&models.Message{},
		&models.PortfolioImage{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing.
// It sets up the context exactly as the real EnsureValidToken middleware does.
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", auth0ID)
		c.Set("access_token", accessToken)

		customClaims := &middleware.CustomClaims{
			Role: role,
		}
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

// createTestClient inserts a client user and returns it
func createTestClient(t *testing.T, db *gorm.DB, auth0ID string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Test Client",
		Email:   auth0ID + "@example.com",
		Role:    models.RoleClient,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return user
}

// createTestProvider inserts an artist user accepting bookings
func createTestProvider(t *testing.T, db *gorm.DB, auth0ID string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID:         auth0ID,
		Name:            "Test Artist",
		Email:           auth0ID + "@example.com",
		Role:            models.RoleArtist,
		AcceptsBookings: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}
	return user
}

// createTestService inserts a visible service for the provider
func createTestService(t *testing.T, db *gorm.DB, providerID uint) models.Service {
	t.Helper()
	service := models.Service{
		ProviderID:      providerID,
		Title:           "Gel Manicure",
		Price:           45,
		DurationMinutes: 60,
		IsVisible:       true,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

// today returns the current date in canonical form
func today() string {
	return scheduling.CanonicalDate(time.Now())
}

// nextDateForWeekday returns the next future date (tomorrow or later)
// falling on the given weekday, in canonical form
func nextDateForWeekday(weekday int) string {
	d := time.Now().AddDate(0, 0, 1)
	for int(d.Weekday()) != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return scheduling.CanonicalDate(d)
}

// createTestWindow inserts an active availability window
func createTestWindow(t *testing.T, db *gorm.DB, providerID uint, dayOfWeek int, start, end string) models.AvailabilityWindow {
	t.Helper()
	window := models.AvailabilityWindow{
		ProviderID: providerID,
		DayOfWeek:  dayOfWeek,
		StartTime:  start,
		EndTime:    end,
		IsActive:   true,
	}
	if err := db.Create(&window).Error; err != nil {
		t.Fatalf("Failed to create test window: %v", err)
	}
	return window
}
