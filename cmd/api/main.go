package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"salescrm/internal/config"
	"salescrm/internal/database"
	"salescrm/internal/middleware"
	"salescrm/internal/modules/activity"
	"salescrm/internal/modules/auth"
	"salescrm/internal/modules/company"
	"salescrm/internal/modules/contact"
	"salescrm/internal/modules/dashboard"
	"salescrm/internal/modules/deal"
	"salescrm/internal/modules/pipeline"
	"salescrm/internal/modules/whatsapp"
	jwtsvc "salescrm/internal/pkg/jwt"
	"salescrm/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	pipelineRepo := repository.NewPipelineRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	whatsappRepo := repository.NewWhatsAppRepository(db)

	// Push channels
	boardHub := deal.NewBoardHub(jwtService)
	waHub := whatsapp.NewHub()

	// Services
	authService := auth.NewService(userRepo, jwtService)
	contactService := contact.NewService(contactRepo, companyRepo)
	companyService := company.NewService(companyRepo)
	pipelineService := pipeline.NewService(pipelineRepo)
	dealService := deal.NewService(dealRepo, pipelineRepo, activityRepo, boardHub)
	activityService := activity.NewService(activityRepo)
	dashboardService := dashboard.NewService(contactRepo, companyRepo, dealRepo, pipelineRepo, activityRepo)
	whatsappService := whatsapp.NewService(whatsappRepo, contactRepo, waHub)

	// Handlers
	authHandler := auth.NewHandler(authService)
	contactHandler := contact.NewHandler(contactService)
	companyHandler := company.NewHandler(companyService)
	pipelineHandler := pipeline.NewHandler(pipelineService)
	dealHandler := deal.NewHandler(dealService)
	activityHandler := activity.NewHandler(activityService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	whatsappHandler := whatsapp.NewHandler(whatsappService)
	waWSHandler := whatsapp.NewWSHandler(waHub, jwtService)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	authHandler.RegisterProtectedRoutes(protected)
	contactHandler.RegisterRoutes(protected)
	companyHandler.RegisterRoutes(protected)
	dealHandler.RegisterRoutes(protected)
	activityHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)
	whatsappHandler.RegisterRoutes(protected)

	admin := v1.Group("")
	admin.Use(middleware.Auth(jwtService), middleware.ManagerOrAdmin())
	pipelineHandler.RegisterRoutes(protected, admin)

	// WebSocket endpoints authenticate via ?token=, not the header.
	r.GET("/ws/board", boardHub.HandleWebSocket)
	r.GET("/ws/whatsapp", waWSHandler.HandleWebSocket)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
