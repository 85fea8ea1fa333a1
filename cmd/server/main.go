package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/obaptiste/dashboard-api/internal/application/billing"
	identityapp "github.com/obaptiste/dashboard-api/internal/application/identity"
	partnerapp "github.com/obaptiste/dashboard-api/internal/application/partner"
	reportapp "github.com/obaptiste/dashboard-api/internal/application/report"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/auth"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/config"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/logger"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/persistence"
	"github.com/obaptiste/dashboard-api/internal/interfaces/http/handler"
	"github.com/obaptiste/dashboard-api/internal/interfaces/http/middleware"
	"github.com/obaptiste/dashboard-api/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	queryCache, err := cache.NewQueryCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize query cache", zap.Error(err))
	}
	defer queryCache.Close()
	log.Info("Query cache ready",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("ttl", cfg.Cache.TTL))

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	revenueRepo := persistence.NewGormRevenueRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.Auth)
	customerService := partnerapp.NewCustomerService(customerRepo, queryCache, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, customerRepo, queryCache, log)
	dashboardService := reportapp.NewDashboardService(invoiceRepo, customerRepo, revenueRepo, queryCache, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	// Handlers
	systemHandler := handler.NewSystemHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Auth.Enabled {
		engine.Use(middleware.JWTAuth(middleware.JWTAuthConfig{
			JWTService: jwtService,
			SkipPaths: []string{
				"/api/v1/health",
				"/api/v1/auth/login",
			},
			Logger: log,
		}))
		log.Info("JWT authentication enabled")
	}

	router.NewRouter(engine).
		Register(systemHandler).
		Register(authHandler).
		Register(customerHandler).
		Register(invoiceHandler).
		Register(dashboardHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
