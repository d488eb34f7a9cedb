package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"findash-api/internal/config"
	"findash-api/internal/handler"
	"findash-api/internal/middleware"
	"findash-api/internal/repository"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Repositories
	userRepo := repository.NewUserRepository(db)
	importRepo := repository.NewImportRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	ruleRepo := repository.NewMatchRuleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	clientRepo := repository.NewClientRepository(db)

	// Asynq client (optional, only when Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTAccessExpire, cfg.JWTRefreshExpire)
	importService := service.NewImportService(
		importRepo,
		entryRepo,
		ruleRepo,
		service.NewPartyStore(supplierRepo, clientRepo),
		asynqClient,
		cfg.UploadMaxSize,
		utils.GetLogger(),
	)
	entryService := service.NewEntryService(entryRepo)
	catalogService := service.NewCatalogService(categoryRepo, supplierRepo, clientRepo)
	dashboardService := service.NewDashboardService(entryRepo, importRepo, redisClient, cfg.DashboardCacheTTL, utils.GetLogger())
	excelService := service.NewExcelService()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	importHandler := handler.NewImportHandler(importService, excelService)
	entryHandler := handler.NewEntryHandler(entryService, dashboardService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/dashboard/summary", dashboardHandler.Summary)

	// Import routes. The template and batch routes sit above the parameterized
	// ones so they are not captured as ids.
	imports := protected.Group("/imports")
	imports.Post("/upload", importHandler.Upload)
	imports.Get("/template", importHandler.DownloadTemplate)
	imports.Get("/", importHandler.List)
	imports.Get("/:id", importHandler.Get)
	imports.Get("/:id/export", importHandler.Export)
	imports.Patch("/:id/items/batch", importHandler.UpdateItemsBatch)
	imports.Patch("/:id/items/:itemId", importHandler.UpdateItem)
	imports.Post("/:id/confirm", importHandler.Confirm)
	imports.Post("/:id/cancel", importHandler.Cancel)

	// Entry routes
	entries := protected.Group("/entries")
	entries.Get("/", entryHandler.GetEntries)
	entries.Post("/", entryHandler.CreateEntry)
	entries.Get("/:id", entryHandler.GetEntry)
	entries.Post("/:id/pay", entryHandler.MarkPaid)

	// Catalog routes
	protected.Get("/categories", catalogHandler.GetCategoryGroups)
	protected.Post("/categories", catalogHandler.CreateCategory)

	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", catalogHandler.GetSuppliers)
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Put("/:id", catalogHandler.UpdateSupplier)
	suppliers.Delete("/:id", catalogHandler.DeleteSupplier)

	clients := protected.Group("/clients")
	clients.Get("/", catalogHandler.GetClients)
	clients.Post("/", catalogHandler.CreateClient)
	clients.Put("/:id", catalogHandler.UpdateClient)
	clients.Delete("/:id", catalogHandler.DeleteClient)
}
