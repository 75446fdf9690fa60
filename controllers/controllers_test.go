package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/events"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/kendall-kelly/transit-pass-api/services"
	"github.com/kendall-kelly/transit-pass-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testApp holds controllers wired to an in-memory database
type testApp struct {
	db            *gorm.DB
	storage       *services.MockS3Service
	orderService  *services.OrderService
	users         *UserController
	orders        *OrderController
	tickets       *ProductController[models.Ticket]
	subscriptions *ProductController[models.Subscription]
	cards         *ProductController[models.MultiRideCard]
	promotions    *PromotionController
	health        *HealthController
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)

	repos := services.OrderRepositories{
		Orders:         repositories.NewOrderRepository(db),
		Tickets:        repositories.NewTicketRepository(db),
		Subscriptions:  repositories.NewSubscriptionRepository(db),
		MultiRideCards: repositories.NewMultiRideCardRepository(db),
	}
	userService := services.NewUserService(
		db,
		repositories.NewUserRepository(db),
		repos.Orders,
		auth.NewPasswordHasher(bcrypt.MinCost, 2),
		testutil.NewTokenIssuer(),
	)
	promotionService := services.NewPromotionService(repositories.NewPromotionRepository(db))
	orderService := services.NewOrderService(db, repos, promotionService, events.NewMockPublisher())
	ticketService := services.NewTicketService(repos.Tickets, repos.Orders)
	subscriptionService := services.NewSubscriptionService(repos.Subscriptions, repos.Orders)
	cardService := services.NewMultiRideCardService(repos.MultiRideCards, repos.Orders)
	storage := services.NewMockS3Service()

	return &testApp{
		db:            db,
		storage:       storage,
		orderService:  orderService,
		users:         NewUserController(userService, services.NewAccountService(ticketService, subscriptionService, cardService)),
		orders:        NewOrderController(orderService, services.NewReceiptService(""), services.NewExportService(orderService, storage)),
		tickets:       NewProductController(ticketService),
		subscriptions: NewProductController(subscriptionService),
		cards:         NewProductController(cardService),
		promotions:    NewPromotionController(promotionService),
		health:        NewHealthController(db),
	}
}

// router mounts every handler under /api/v1, authenticating requests as user
// when user is not nil. Role checks are covered by the middleware and routes tests.
func (a *testApp) router(user *models.User) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")

	v1.GET("/health", a.health.Health)
	v1.GET("/database/status", a.health.DatabaseStatus)
	v1.POST("/users", a.users.Register)
	v1.POST("/users/login", a.users.Login)

	protected := v1.Group("")
	if user != nil {
		protected.Use(testutil.MockAuth(user))
	}
	{
		protected.GET("/users/profile", a.users.GetMyProfile)
		protected.GET("/users", a.users.ListUsers)
		protected.GET("/users/:id", a.users.GetUser)
		protected.PUT("/users/:id/role", a.users.UpdateRole)
		protected.GET("/users/:id/products", a.users.GetProducts)

		protected.POST("/orders", a.orders.CreateOrder)
		protected.GET("/orders", a.orders.ListOrders)
		protected.GET("/orders/user-orders", a.orders.GetUserOrders)
		protected.POST("/orders/export", a.orders.ExportOrders)
		protected.GET("/orders/:id", a.orders.GetOrder)
		protected.GET("/orders/:id/receipt", a.orders.GetReceipt)

		protected.GET("/tickets", a.tickets.List)
		protected.GET("/tickets/ticketuser", a.tickets.ListByUser)
		protected.GET("/tickets/:id", a.tickets.Get)
		protected.GET("/subscriptions", a.subscriptions.List)
		protected.GET("/subscriptions/subsuser", a.subscriptions.ListByUser)
		protected.GET("/subscriptions/:id", a.subscriptions.Get)
		protected.GET("/beurtenkaarten", a.cards.List)
		protected.GET("/beurtenkaarten/beurtuser", a.cards.ListByUser)
		protected.GET("/beurtenkaarten/:id", a.cards.Get)

		protected.POST("/promocodes/validate", a.promotions.Validate)
		protected.POST("/promocodes", a.promotions.Create)
		protected.GET("/promocodes", a.promotions.List)
	}
	return router
}

// envelope is the JSON shape of every API response
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "response should be valid JSON: %s", w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "expected success envelope, got %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func scenarioCart() map[string]interface{} {
	return map[string]interface{}{
		"orders": []map[string]interface{}{
			{"type": "Ticket", "price": 20, "startStation": "A", "endStation": "B", "date": "2025-01-10"},
			{"type": "Subscription", "subtype": "3 Months", "region": "north", "startDate": "2025-01-10"},
		},
	}
}
