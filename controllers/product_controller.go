package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/middleware"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/services"
)

// ProductController serves the read endpoints shared by tickets, subscriptions
// and multi-ride cards
type ProductController[T services.Product] struct {
	products *services.ProductService[T]
}

// NewProductController creates a ProductController
func NewProductController[T services.Product](products *services.ProductService[T]) *ProductController[T] {
	return &ProductController[T]{products: products}
}

// List handles GET /api/v1/<products>
func (pc *ProductController[T]) List(c *gin.Context) {
	items, err := pc.products.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, items)
}

// Get handles GET /api/v1/<products>/:id. Riders only see products from their
// own checkouts; moderators and admins see all.
func (pc *ProductController[T]) Get(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperrors.Unauthorized("User not authenticated"))
		return
	}

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	item, err := pc.products.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if !user.HasRole(models.RoleModerator, models.RoleAdmin) {
		owned, err := pc.products.OwnedBy(ctx, item, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !owned {
			respondError(c, apperrors.Forbidden("You can only access your own products"))
			return
		}
	}

	respondOK(c, http.StatusOK, item)
}

// ListByUser handles GET /api/v1/<products>/<user route>?userId=
func (pc *ProductController[T]) ListByUser(c *gin.Context) {
	userID, ok := userIDQuery(c)
	if !ok {
		return
	}

	items, err := pc.products.GetByOwningUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, items)
}
