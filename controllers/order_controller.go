package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/middleware"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/services"
)

// CreateOrderRequest represents the request body for checking out a cart
type CreateOrderRequest struct {
	Orders       []services.LineItemRequest `json:"orders"`
	PromotionIDs []string                   `json:"promotionIds"`
}

// OrderController serves checkout and order queries
type OrderController struct {
	orders   *services.OrderService
	receipts *services.ReceiptService
	exports  *services.ExportService
}

// NewOrderController creates an OrderController. exports may be nil when no
// bucket is configured.
func NewOrderController(orders *services.OrderService, receipts *services.ReceiptService, exports *services.ExportService) *OrderController {
	return &OrderController{orders: orders, receipts: receipts, exports: exports}
}

// CreateOrder handles POST /api/v1/orders - places every line item of the cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperrors.Unauthorized("User not authenticated"))
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	orders, err := oc.orders.PlaceCart(c.Request.Context(), user, req.Orders, req.PromotionIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, orders)
}

// ListOrders handles GET /api/v1/orders (moderator, admin)
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetUserOrders handles GET /api/v1/orders/user-orders?userId=
func (oc *OrderController) GetUserOrders(c *gin.Context) {
	userID, ok := userIDQuery(c)
	if !ok {
		return
	}

	orders, err := oc.orders.GetOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, ok := oc.loadOwnedOrder(c)
	if !ok {
		return
	}

	respondOK(c, http.StatusOK, order)
}

// GetReceipt handles GET /api/v1/orders/:id/receipt - a PDF covering every
// order placed in the same checkout
func (oc *OrderController) GetReceipt(c *gin.Context) {
	order, ok := oc.loadOwnedOrder(c)
	if !ok {
		return
	}

	cart, err := oc.orders.GetOrdersByReference(c.Request.Context(), order.OrderReferentie)
	if err != nil {
		respondError(c, err)
		return
	}

	owned := cart[:0]
	for _, o := range cart {
		if o.UserID == order.UserID {
			owned = append(owned, o)
		}
	}

	pdf, err := oc.receipts.Render(c.Request.Context(), owned)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, order.OrderReferentie))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportOrders handles POST /api/v1/orders/export (admin)
func (oc *OrderController) ExportOrders(c *gin.Context) {
	if oc.exports == nil {
		respondError(c, apperrors.New("EXPORT_DISABLED", "Order export is not configured", http.StatusServiceUnavailable))
		return
	}

	export, err := oc.exports.ExportOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, export)
}

// loadOwnedOrder fetches the :id order and checks the current user may see it
func (oc *OrderController) loadOwnedOrder(c *gin.Context) (*models.Order, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperrors.Unauthorized("User not authenticated"))
		return nil, false
	}

	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	order, err := oc.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if order.UserID != user.ID && !user.HasRole(models.RoleModerator, models.RoleAdmin) {
		respondError(c, apperrors.Forbidden("You can only access your own orders"))
		return nil, false
	}

	return order, true
}
