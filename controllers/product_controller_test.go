package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEndpoints(t *testing.T) {
	app := newTestApp(t)
	owner := testutil.CreateUser(t, app.db, "owner@example.com", models.RoleUser)
	other := testutil.CreateUser(t, app.db, "other@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, app.db, "admin@example.com", models.RoleAdmin)

	cart := map[string]interface{}{"orders": []map[string]interface{}{
		{"type": "Ticket", "price": 3, "startStation": "Leuven", "endStation": "Gent", "date": "2025-02-01"},
		{"type": "Subscription", "subtype": "1 Month", "region": "west", "startDate": "2025-02-01"},
		{"type": "Beurtenkaart", "price": 25, "startDate": "2025-02-01"},
	}}
	require.Equal(t, http.StatusCreated, doRequest(t, app.router(owner), http.MethodPost, "/api/v1/orders", cart).Code)
	require.Equal(t, http.StatusCreated, doRequest(t, app.router(other), http.MethodPost, "/api/v1/orders", scenarioCart()).Code)

	tests := []struct {
		name     string
		base     string
		userPath string
		wantAll  int
		wantMine int
	}{
		{"tickets", "/api/v1/tickets", "ticketuser", 2, 1},
		{"subscriptions", "/api/v1/subscriptions", "subsuser", 2, 1},
		{"multi-ride cards", "/api/v1/beurtenkaarten", "beurtuser", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := app.router(admin)

			w := doRequest(t, router, http.MethodGet, tt.base, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var all []map[string]interface{}
			decodeData(t, w, &all)
			assert.Len(t, all, tt.wantAll)

			w = doRequest(t, router, http.MethodGet, fmt.Sprintf("%s/%s?userId=%d", tt.base, tt.userPath, owner.ID), nil)
			require.Equal(t, http.StatusOK, w.Code)
			var mine []map[string]interface{}
			decodeData(t, w, &mine)
			require.Len(t, mine, tt.wantMine)

			id := uint(mine[0]["id"].(float64))
			w = doRequest(t, router, http.MethodGet, fmt.Sprintf("%s/%d", tt.base, id), nil)
			require.Equal(t, http.StatusOK, w.Code)
			var one map[string]interface{}
			decodeData(t, w, &one)
			assert.Equal(t, mine[0]["orderId"], one["orderId"])

			w = doRequest(t, router, http.MethodGet, tt.base+"/9999", nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, apperrors.CodeNotFound, decodeEnvelope(t, w).Error.Code)

			w = doRequest(t, router, http.MethodGet, fmt.Sprintf("%s/%s", tt.base, tt.userPath), nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProductEndpoints_UserWithoutPurchases(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "new@example.com", models.RoleUser)

	w := doRequest(t, app.router(user), http.MethodGet, fmt.Sprintf("/api/v1/tickets/ticketuser?userId=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tickets []models.Ticket
	decodeData(t, w, &tickets)
	assert.Empty(t, tickets)
}

func TestProductGet_OwnerOrStaff(t *testing.T) {
	app := newTestApp(t)
	owner := testutil.CreateUser(t, app.db, "owner@example.com", models.RoleUser)
	other := testutil.CreateUser(t, app.db, "other@example.com", models.RoleUser)
	moderator := testutil.CreateUser(t, app.db, "mod@example.com", models.RoleModerator)

	orders := placeScenario(t, app, owner)
	require.Len(t, orders, 2)
	require.NotNil(t, orders[0].ProductID)
	require.NotNil(t, orders[1].ProductID)

	paths := []string{
		fmt.Sprintf("/api/v1/tickets/%d", *orders[0].ProductID),
		fmt.Sprintf("/api/v1/subscriptions/%d", *orders[1].ProductID),
	}

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"owner", owner, http.StatusOK},
		{"moderator", moderator, http.StatusOK},
		{"other rider", other, http.StatusForbidden},
	}

	for _, path := range paths {
		for _, tt := range tests {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				w := doRequest(t, app.router(tt.user), http.MethodGet, path, nil)
				require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

				if tt.wantStatus == http.StatusForbidden {
					env := decodeEnvelope(t, w)
					assert.Equal(t, apperrors.CodeForbidden, env.Error.Code)
					assert.NotContains(t, w.Body.String(), orders[0].OrderReferentie)
				}
			})
		}
	}
}

func TestProductGet_RequiresUser(t *testing.T) {
	app := newTestApp(t)

	w := doRequest(t, app.router(nil), http.MethodGet, "/api/v1/tickets/1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
