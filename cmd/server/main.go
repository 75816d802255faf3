package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "etshoes/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"etshoes/internal/assistant"
	"etshoes/internal/auth"
	"etshoes/internal/cache"
	"etshoes/internal/config"
	"etshoes/internal/db"
	"etshoes/internal/handler"
	"etshoes/internal/logger"
	"etshoes/internal/mailer"
	"etshoes/internal/model"
	"etshoes/internal/repository"
	"etshoes/internal/router"
	"etshoes/internal/service"
	"etshoes/internal/storage"
)

// @title Et.Shoes Marketplace API
// @version 1.0
// @description Direct-seller shoe marketplace: shop catalog, seller offers, admin verification and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zap.L().Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		zap.L().Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			zap.L().Warn("failed to drop tables (may not exist)", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		zap.L().Warn("redis unreachable, sessions cannot be refreshed or revoked", zap.Error(err))
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	sellerRepo := repository.NewSellerRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	variantRepo := repository.NewVariantRepository(gormDB)
	offerRepo := repository.NewOfferRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize outbound clients
	resetMailer := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	uploader := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	completer := assistant.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)

	// Initialize services
	authService := service.NewAuthService(profileRepo, jwtService, tokenStore, resetMailer, cfg.PublicBaseURL)
	sellerService := service.NewSellerService(sellerRepo)
	offerService := service.NewOfferService(offerRepo, sellerRepo, variantRepo)
	catalogService := service.NewCatalogService(productRepo, variantRepo, offerRepo, sellerRepo, offerService)
	mediaService := service.NewMediaService(uploader, model.MaxVariantImages)
	chatService := service.NewChatService(productRepo, completer)
	seedService := service.NewSeedService(profileRepo, productRepo, variantRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	sellerHandler := handler.NewSellerHandler(sellerService, offerService)
	adminHandler := handler.NewAdminHandler(sellerService, catalogService, mediaService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	chatHandler := handler.NewChatHandler(chatService)
	seedHandler := handler.NewSeedHandler(seedService)

	// Register routes
	router.Register(
		e,
		jwtService,
		tokenStore,
		authHandler,
		sellerHandler,
		adminHandler,
		catalogHandler,
		chatHandler,
		seedHandler,
	)

	zap.L().Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}

// swaggerURL accepts a host with or without scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		host = "localhost:" + port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
