package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/services"
	"github.com/kendall-kelly/transit-pass-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration(email string) map[string]string {
	return map[string]string{
		"firstName": "Jan",
		"lastName":  "Peeters",
		"email":     email,
		"password":  "s3cret-pass",
	}
}

func TestRegister_Success(t *testing.T) {
	app := newTestApp(t)
	router := app.router(nil)

	w := doRequest(t, router, http.MethodPost, "/api/v1/users", registration("Jan@Example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	decodeData(t, w, &user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "jan@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotContains(t, w.Body.String(), "s3cret-pass")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing email",
			body:       map[string]string{"firstName": "Jan", "lastName": "Peeters", "password": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
		{
			name:       "malformed email",
			body:       registration("not-an-email"),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
		{
			name:       "not JSON",
			body:       "plain string",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			w := doRequest(t, app.router(nil), http.MethodPost, "/api/v1/users", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	router := app.router(nil)

	first := doRequest(t, router, http.MethodPost, "/api/v1/users", registration("dup@example.com"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(t, router, http.MethodPost, "/api/v1/users", registration("dup@example.com"))
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, apperrors.CodeDuplicate, decodeEnvelope(t, second).Error.Code)

	var count int64
	require.NoError(t, app.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	router := app.router(nil)
	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/api/v1/users", registration("login@example.com")).Code)

	t.Run("correct password", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "login@example.com",
			"password": "s3cret-pass",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result services.LoginResult
		decodeData(t, w, &result)
		assert.NotEmpty(t, result.Token)
		require.NotNil(t, result.User)
		assert.Equal(t, "login@example.com", result.User.Email)

		claims, err := testutil.NewTokenIssuer().Parse(result.Token)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(result.User.ID), claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "login@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.CodeUnauthorized, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/users/login", map[string]string{"email": "login@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetMyProfile(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "me@example.com", models.RoleUser)

	w := doRequest(t, app.router(user), http.MethodGet, "/api/v1/users/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	decodeData(t, w, &got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "me@example.com", got.Email)

	// Without an authenticated user the handler refuses
	w = doRequest(t, app.router(nil), http.MethodGet, "/api/v1/users/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAndGetUsers(t *testing.T) {
	app := newTestApp(t)
	admin := testutil.CreateUser(t, app.db, "admin@example.com", models.RoleAdmin)
	rider := testutil.CreateUser(t, app.db, "rider@example.com", models.RoleUser)
	router := app.router(admin)

	w := doRequest(t, router, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decodeData(t, w, &users)
	assert.Len(t, users, 2)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", rider.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	decodeData(t, w, &got)
	assert.Equal(t, "rider@example.com", got.Email)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeEnvelope(t, w).Error.Message)

	w = doRequest(t, router, http.MethodGet, "/api/v1/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRole(t *testing.T) {
	tests := []struct {
		name       string
		path       func(target *models.User) string
		body       interface{}
		wantStatus int
		wantRole   string
	}{
		{
			name:       "promote to moderator",
			path:       func(u *models.User) string { return fmt.Sprintf("/api/v1/users/%d/role", u.ID) },
			body:       map[string]string{"role": "Moderator"},
			wantStatus: http.StatusOK,
			wantRole:   models.RoleModerator,
		},
		{
			name:       "unknown role",
			path:       func(u *models.User) string { return fmt.Sprintf("/api/v1/users/%d/role", u.ID) },
			body:       map[string]string{"role": "superuser"},
			wantStatus: http.StatusUnprocessableEntity,
			wantRole:   models.RoleUser,
		},
		{
			name:       "missing role",
			path:       func(u *models.User) string { return fmt.Sprintf("/api/v1/users/%d/role", u.ID) },
			body:       map[string]string{},
			wantStatus: http.StatusBadRequest,
			wantRole:   models.RoleUser,
		},
		{
			name:       "unknown user",
			path:       func(*models.User) string { return "/api/v1/users/999/role" },
			body:       map[string]string{"role": "admin"},
			wantStatus: http.StatusNotFound,
			wantRole:   models.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			admin := testutil.CreateUser(t, app.db, "admin@example.com", models.RoleAdmin)
			target := testutil.CreateUser(t, app.db, "target@example.com", models.RoleUser)

			w := doRequest(t, app.router(admin), http.MethodPut, tt.path(target), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var stored models.User
			require.NoError(t, app.db.First(&stored, target.ID).Error)
			assert.Equal(t, tt.wantRole, stored.Role)
		})
	}
}

func TestGetProducts(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "owner@example.com", models.RoleUser)
	router := app.router(user)

	cart := scenarioCart()
	cart["orders"] = append(cart["orders"].([]map[string]interface{}), map[string]interface{}{"type": "10-Session Card", "price": 25})
	require.Equal(t, http.StatusCreated, doRequest(t, router, http.MethodPost, "/api/v1/orders", cart).Code)

	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/products", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products services.AccountProducts
	decodeData(t, w, &products)
	assert.Len(t, products.Tickets, 1)
	assert.Len(t, products.Subscriptions, 1)
	assert.Len(t, products.MultiRideCards, 1)
}
