package routes

import (
	"educycle-api/internal/adapters/http/handlers"
	"educycle-api/internal/adapters/http/middleware"
	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/config"
	"educycle-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. publisher receives ledger
// entries after commit; storage backs the auth rate limiters (nil = memory).
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, publisher services.LedgerPublisher, storage fiber.Storage) {
	store := repositories.NewStore(db)

	// Initialize services
	authService := services.NewAuthService(store, cfg)
	userService := services.NewUserService(store, cfg)
	categoryService := services.NewCategoryService(store)
	itemService := services.NewItemService(store)
	listingService := services.NewListingService(store, cfg)
	activityService := services.NewActivityService(store, cfg)
	ledgerService := services.NewLedgerService(store, cfg, publisher)
	uploadService := services.NewUploadService(cfg)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(authService, userService, ledgerService)
	catalogHandler := handlers.NewCatalogHandler(categoryService, itemService)
	listingHandler := handlers.NewListingHandler(listingService)
	activityHandler := handlers.NewActivityHandler(activityService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.AdminOnly()
	authLimiter := middleware.AuthRateLimiter(storage)

	// Auth routes
	authRoutes := apiV1.Group("/auth", middleware.NoCacheHeaders())
	authRoutes.Post("/register", authLimiter, authHandler.Register)
	authRoutes.Post("/login", authLimiter, authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", auth, authHandler.Me)
	authRoutes.Post("/logout-all", auth, authHandler.LogoutAll)

	// User routes
	users := apiV1.Group("/users")
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Get("/:id/transactions", userHandler.ListUserTransactions)
	users.Post("/", auth, adminOnly, userHandler.CreateUser)
	users.Put("/:id", auth, userHandler.UpdateUser)
	users.Delete("/:id", auth, adminOnly, userHandler.DeleteUser)

	// Catalog routes
	categories := apiV1.Group("/categories")
	categories.Get("/", middleware.CatalogCache(), catalogHandler.ListCategories)
	categories.Get("/:id", middleware.CatalogCache(), catalogHandler.GetCategory)
	categories.Post("/", auth, adminOnly, catalogHandler.CreateCategory)
	categories.Put("/:id", auth, adminOnly, catalogHandler.UpdateCategory)
	categories.Delete("/:id", auth, adminOnly, catalogHandler.DeleteCategory)

	items := apiV1.Group("/items")
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Post("/", auth, catalogHandler.CreateItem)
	items.Put("/:id", auth, catalogHandler.UpdateItem)
	items.Delete("/:id", auth, catalogHandler.DeleteItem)

	// Post routes; fixed prefixes before /:id
	posts := apiV1.Group("/posts")
	posts.Get("/", listingHandler.GetAll)
	posts.Get("/seller/:id", listingHandler.GetBySeller)
	posts.Get("/type/:type", listingHandler.GetByType)
	posts.Get("/status/:status", listingHandler.GetByStatus)
	posts.Get("/state/:state", listingHandler.GetByState)
	posts.Get("/category/:id", listingHandler.GetByCategory)
	posts.Get("/:id", listingHandler.GetByID)
	posts.Post("/", auth, listingHandler.Create)
	posts.Put("/:id", auth, listingHandler.Update)
	posts.Delete("/:id", auth, listingHandler.Delete)

	// Activity routes
	activities := apiV1.Group("/activities")
	activities.Get("/", activityHandler.List)
	activities.Get("/:id", activityHandler.GetByID)
	activities.Get("/:id/posts", activityHandler.ListPosts)
	activities.Post("/", auth, activityHandler.Create)
	activities.Put("/:id", auth, activityHandler.Update)
	activities.Delete("/:id", auth, activityHandler.Delete)
	activities.Post("/:id/posts/:postId", auth, activityHandler.LinkPost)
	activities.Delete("/:id/posts/:postId", auth, activityHandler.UnlinkPost)

	// Ledger routes
	transactions := apiV1.Group("/transactions", auth)
	transactions.Post("/", transactionHandler.RecordPost)
	transactions.Post("/activity", transactionHandler.RecordActivity)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)

	apiV1.Get("/dashboard/me", auth, dashboardHandler.GetMemberDashboard)

	// Upload routes
	apiV1.Post("/uploads/signature", auth, uploadHandler.Signature)

	// Admin routes
	admin := apiV1.Group("/admin", auth, adminOnly)
	admin.Get("/dashboard", dashboardHandler.GetAdminDashboard)
	admin.Get("/users", userHandler.ListUsersPaged)
	admin.Get("/transactions", transactionHandler.ListPaged)
	admin.Get("/transactions/export", transactionHandler.Export)
	admin.Post("/ledger/reconcile", middleware.StrictRateLimiter(storage), transactionHandler.Reconcile)
	admin.Patch("/posts/:id", listingHandler.Patch)
	admin.Patch("/activities/:id", activityHandler.Patch)
}
