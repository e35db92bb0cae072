package router

import (
	"context"
	"time"

	"eventdesk/internal/config"
	"eventdesk/internal/handler"
	"eventdesk/internal/infra"
	"eventdesk/internal/metrics"
	"eventdesk/internal/middleware"
	"eventdesk/internal/repository"
	"eventdesk/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built by the composition root.
// Renderer and Notifier default to the fpdf renderer and the SMTP mailer.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Renderer service.Renderer
	Notifier service.Notifier
}

// New wires all dependencies and returns a configured Gin engine. Background
// housekeeping (rate limiter purge) stops when ctx is done.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.NewRateLimiter(1000, time.Minute, "Too many requests. Try again in a minute.")
	loginLimiter := middleware.LoginRateLimiter()
	go apiLimiter.RunPurger(ctx, time.Minute)
	go loginLimiter.RunPurger(ctx, time.Minute)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecureHeaders(cfg))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.ErrorHandler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	if d.Renderer == nil {
		d.Renderer = infra.NewPDFRenderer(cfg.CompanyName)
	}
	if d.Notifier == nil {
		d.Notifier = infra.NewMailer(cfg)
	}
	tokens := infra.NewTokenStore(d.Redis)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(d.DB)
	clientRepo := repository.NewClientRepository(d.DB)
	quotationRepo := repository.NewQuotationRepository(d.DB)
	receiptRepo := repository.NewReceiptRepository(d.DB)
	sequenceRepo := repository.NewSequenceRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	numbering := service.NewNumberingService(sequenceRepo)
	authSvc := service.NewAuthService(userRepo, tokens, cfg)
	clientSvc := service.NewClientService(clientRepo)
	quotationSvc := service.NewQuotationService(quotationRepo, clientRepo, numbering)
	receiptSvc := service.NewReceiptService(receiptRepo, clientRepo, numbering)
	dispatchSvc := service.NewDispatchService(quotationRepo, receiptRepo, d.Renderer, d.Notifier, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	quotationsH := handler.NewQuotationsHandler(quotationSvc, dispatchSvc)
	receiptsH := handler.NewReceiptsHandler(receiptSvc, dispatchSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis))
	metrics.Register(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", apiLimiter.Handler())

	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/token", loginLimiter.Handler(), authH.Token)
		auth.POST("/token/refresh", authH.Refresh)
	}

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		clients := protected.Group("/clients")
		{
			clients.GET("", clientsH.List)
			clients.POST("", clientsH.Create)
			clients.GET("/:id", clientsH.Get)
			clients.PUT("/:id", clientsH.Replace)
			clients.PATCH("/:id", clientsH.Patch)
			clients.DELETE("/:id", clientsH.Delete)
		}

		quotations := protected.Group("/quotations")
		{
			quotations.GET("", quotationsH.List)
			quotations.POST("", quotationsH.Create)
			quotations.GET("/export", quotationsH.Export)
			quotations.GET("/:id", quotationsH.Get)
			quotations.PUT("/:id", quotationsH.Replace)
			quotations.PATCH("/:id", quotationsH.Patch)
			quotations.DELETE("/:id", quotationsH.Delete)
			quotations.POST("/:id/send_email", quotationsH.SendEmail)
		}

		receipts := protected.Group("/receipts")
		{
			receipts.GET("", receiptsH.List)
			receipts.POST("", receiptsH.Create)
			receipts.GET("/export", receiptsH.Export)
			receipts.GET("/:id", receiptsH.Get)
			receipts.PUT("/:id", receiptsH.Replace)
			receipts.PATCH("/:id", receiptsH.Patch)
			receipts.DELETE("/:id", receiptsH.Delete)
			receipts.POST("/:id/send_email", receiptsH.SendEmail)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
