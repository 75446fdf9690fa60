package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/config"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/stretchr/testify/require"
)

const (
	TestJWTSecret   = "test-secret-do-not-use-in-production"
	TestJWTIssuer   = "transit-pass-api-test"
	TestJWTAudience = "transit-pass-clients-test"
)

// NewTokenIssuer returns an issuer configured with the test secret, issuer and audience
func NewTokenIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(TestJWTSecret, TestJWTIssuer, TestJWTAudience, time.Hour)
}

// NewTestConfig returns a configuration that matches NewTokenIssuer, with
// rate limiting and external services switched off
func NewTestConfig() *config.Config {
	return &config.Config{
		GoEnv:              "test",
		Port:               "8080",
		DatabaseURL:        "sqlite::memory:",
		JWTSecret:          TestJWTSecret,
		JWTIssuer:          TestJWTIssuer,
		JWTAudience:        TestJWTAudience,
		JWTTTL:             time.Hour,
		BcryptCost:         4,
		HashConcurrency:    2,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		CheckoutTimeout:    5 * time.Second,
		OrderEventsQueue:   "order.placed",
	}
}

// BearerToken returns an "Authorization" header value for user
func BearerToken(t *testing.T, user *models.User) string {
	t.Helper()

	issued, err := NewTokenIssuer().Issue(user)
	require.NoError(t, err, "Failed to issue test token")
	return "Bearer " + issued.Token
}

// SetMockAuthContext marks the request as authenticated as user, the same way
// the auth middleware does after resolving a token
func SetMockAuthContext(c *gin.Context, user *models.User) {
	c.Set("user_id", user.ID)
	c.Set("current_user", user)
}

// MockAuth is a gin handler that authenticates every request as user
func MockAuth(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, user)
		c.Next()
	}
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
