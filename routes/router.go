package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/auth"
	"github.com/kendall-kelly/transit-pass-api/config"
	"github.com/kendall-kelly/transit-pass-api/controllers"
	"github.com/kendall-kelly/transit-pass-api/events"
	"github.com/kendall-kelly/transit-pass-api/middleware"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/kendall-kelly/transit-pass-api/repositories"
	"github.com/kendall-kelly/transit-pass-api/services"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the long-lived resources the API is built from.
// Redis, Publisher and Storage are optional.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Hasher    *auth.PasswordHasher
	Tokens    *auth.TokenIssuer
	Redis     *redis.Client
	Publisher events.Publisher
	Storage   services.S3Interface
}

// SetupRouter wires repositories, services and controllers and mounts every
// route under /api/v1
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	orderRepos := services.OrderRepositories{
		Orders:         repositories.NewOrderRepository(db),
		Tickets:        repositories.NewTicketRepository(db),
		Subscriptions:  repositories.NewSubscriptionRepository(db),
		MultiRideCards: repositories.NewMultiRideCardRepository(db),
	}

	// Services
	userService := services.NewUserService(db, userRepo, orderRepos.Orders, deps.Hasher, deps.Tokens)
	promotionService := services.NewPromotionService(repositories.NewPromotionRepository(db))
	orderService := services.NewOrderService(db, orderRepos, promotionService, deps.Publisher)
	ticketService := services.NewTicketService(orderRepos.Tickets, orderRepos.Orders)
	subscriptionService := services.NewSubscriptionService(orderRepos.Subscriptions, orderRepos.Orders)
	cardService := services.NewMultiRideCardService(orderRepos.MultiRideCards, orderRepos.Orders)
	accountService := services.NewAccountService(ticketService, subscriptionService, cardService)

	var exportService *services.ExportService
	if deps.Storage != nil {
		exportService = services.NewExportService(orderService, deps.Storage)
	}

	// Controllers
	health := controllers.NewHealthController(db)
	users := controllers.NewUserController(userService, accountService)
	orders := controllers.NewOrderController(orderService, services.NewReceiptService(""), exportService)
	tickets := controllers.NewProductController(ticketService)
	subscriptions := controllers.NewProductController(subscriptionService)
	cards := controllers.NewProductController(cardService)
	promotions := controllers.NewPromotionController(promotionService)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	authenticated := []gin.HandlerFunc{
		middleware.EnsureValidToken(cfg),
		middleware.ResolveUser(userService),
	}
	staff := middleware.RequireRole(models.RoleModerator, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)
	selfByQuery := middleware.RequireSelfOrRole(middleware.UserIDFromQuery("userId"), models.RoleModerator, models.RoleAdmin)
	selfByParam := middleware.RequireSelfOrRole(middleware.UserIDFromParam("id"), models.RoleModerator, models.RoleAdmin)

	loginLimit := middleware.NewTokenBucket(middleware.RateLimitOptions{
		Enabled:        cfg.LoginRateLimitEnabled,
		Prefix:         "rl:login",
		Capacity:       cfg.LoginRateLimitCapacity,
		RefillTokens:   1,
		RefillInterval: cfg.LoginRateLimitRefill,
	}, deps.Redis)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health.Health)
		v1.GET("/status", health.Health)
		v1.GET("/database/status", health.DatabaseStatus)

		// Public user routes
		v1.POST("/users", users.Register)
		v1.POST("/users/login", loginLimit, users.Login)

		protected := v1.Group("")
		protected.Use(authenticated...)
		{
			protected.GET("/users/profile", users.GetMyProfile)
			protected.GET("/users", admin, users.ListUsers)
			protected.GET("/users/:id", selfByParam, users.GetUser)
			protected.PUT("/users/:id/role", admin, users.UpdateRole)
			protected.GET("/users/:id/products", selfByParam, users.GetProducts)

			protected.POST("/orders", middleware.Timeout(cfg.CheckoutTimeout), orders.CreateOrder)
			protected.GET("/orders", staff, orders.ListOrders)
			protected.GET("/orders/user-orders", selfByQuery, orders.GetUserOrders)
			protected.POST("/orders/export", admin, orders.ExportOrders)
			protected.GET("/orders/:id", orders.GetOrder)
			protected.GET("/orders/:id/receipt", orders.GetReceipt)

			protected.GET("/tickets", staff, tickets.List)
			protected.GET("/tickets/ticketuser", selfByQuery, tickets.ListByUser)
			protected.GET("/tickets/:id", tickets.Get)

			protected.GET("/subscriptions", staff, subscriptions.List)
			protected.GET("/subscriptions/subsuser", selfByQuery, subscriptions.ListByUser)
			protected.GET("/subscriptions/:id", subscriptions.Get)

			protected.GET("/beurtenkaarten", staff, cards.List)
			protected.GET("/beurtenkaarten/beurtuser", selfByQuery, cards.ListByUser)
			protected.GET("/beurtenkaarten/:id", cards.Get)

			protected.POST("/promocodes/validate", promotions.Validate)
			protected.POST("/promocodes", admin, promotions.Create)
			protected.GET("/promocodes", admin, promotions.List)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
