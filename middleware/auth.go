package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/config"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/rs/zerolog/log"
)

// Context keys set by the auth middleware
const (
	ContextUserID          = "user_id"
	ContextValidatedClaims = "validated_claims"
	ContextCurrentUser     = "current_user"
)

// CustomClaims contains the application claims carried by our access tokens.
type CustomClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Validate does nothing for this example, but we need
// it to satisfy validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
// Tokens are HS256 signed with cfg.JWTSecret and must carry cfg.JWTIssuer and cfg.JWTAudience.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Encountered error while validating JWT")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Error().Err(writeErr).Msg("Failed to write error response")
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			passed = true
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			userID, err := strconv.ParseUint(token.RegisteredClaims.Subject, 10, 64)
			if err != nil || userID == 0 {
				abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token subject is not a user ID")
				return
			}

			c.Request = r
			c.Set(ContextUserID, uint(userID))
			c.Set(ContextValidatedClaims, token)

			c.Next()
		}

		// Use the JWT middleware to check the token
		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

// UserLookup resolves the subject of a token to a stored user
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// ResolveUser loads the authenticated user and stores it in the context.
// Must run after EnsureValidToken.
func ResolveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
			return
		}
		if err != nil {
			log.Error().Err(err).Uint("user_id", userID).Msg("Failed to resolve authenticated user")
			abortWithError(c, http.StatusInternalServerError, apperrors.CodeInternal, "internal server error")
			return
		}

		c.Set(ContextCurrentUser, user)
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return 0, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a uint"}
	}

	return id, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ContextValidatedClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetCurrentUser returns the user stored by ResolveUser
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(ContextCurrentUser)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// RequireRole is a middleware that lets the request through only when the
// current user holds one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		if !user.HasRole(roles...) {
			abortWithError(c, http.StatusForbidden, apperrors.CodeForbidden, "Insufficient permissions to access this resource")
			return
		}

		c.Next()
	}
}

// TargetUserID extracts the user a request is about
type TargetUserID func(c *gin.Context) (uint, bool)

// UserIDFromQuery reads the target user from a query parameter
func UserIDFromQuery(name string) TargetUserID {
	return func(c *gin.Context) (uint, bool) {
		return parseID(c.Query(name))
	}
}

// UserIDFromParam reads the target user from a path parameter
func UserIDFromParam(name string) TargetUserID {
	return func(c *gin.Context) (uint, bool) {
		return parseID(c.Param(name))
	}
}

// RequireSelfOrRole lets the request through when it targets the current user's
// own data, or when the current user holds one of roles
func RequireSelfOrRole(target TargetUserID, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}

		id, ok := target(c)
		if !ok {
			abortWithError(c, http.StatusBadRequest, apperrors.CodeBadRequest, "A valid user ID is required")
			return
		}

		if id != user.ID && !user.HasRole(roles...) {
			abortWithError(c, http.StatusForbidden, apperrors.CodeForbidden, "You can only access your own data")
			return
		}

		c.Next()
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// IsAuthError reports whether err is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
