package testutil

import (
	"testing"

	"github.com/kendall-kelly/transit-pass-api/config"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database private to the test.
// The pool is limited to one connection so that every query, including those
// made inside a transaction, sees the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.AutoMigrate(db), "Failed to migrate test database")
	return db
}

// CreateUser persists a user with the given email and role. The stored
// password is a placeholder, not a bcrypt hash.
func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user, err := models.NewUser(models.UserParams{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "not-a-real-hash",
		Role:      role,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(user).Error, "Failed to create test user")
	return user
}

// CreatePromotion persists a promotion with a percentage discount
func CreatePromotion(t *testing.T, db *gorm.DB, code string, active bool, discount int64) *models.Promotion {
	t.Helper()

	promo, err := models.NewPromotion(models.PromotionParams{
		Code:           code,
		IsActive:       active,
		DiscountAmount: decimal.NewFromInt(discount),
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(promo).Error, "Failed to create test promotion")
	return promo
}
