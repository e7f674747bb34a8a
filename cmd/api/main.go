package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/handler"
	"github.com/airneis/airneis-api/internal/middleware"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
	"github.com/airneis/airneis-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine, the environment may be set externally.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("database connected", "host", cfg.DB.Host, "name", cfg.DB.Name)

	userRepo := repository.NewUserRepository(pool)
	addressRepo := repository.NewAddressRepository(pool)
	basketRepo := repository.NewBasketRepository(pool)
	paymentRepo := repository.NewPaymentMethodRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	authService := service.NewAuthService(userRepo, cfg.JWT)
	usersService := service.NewUsersService(userRepo, addressRepo, basketRepo, paymentRepo, productRepo)
	categoryService := service.NewCategoryService(categoryRepo, mediaRepo)
	materialService := service.NewMaterialService(materialRepo)
	productService := service.NewProductService(productRepo, categoryRepo, materialRepo, mediaRepo)
	mediaService := service.NewMediaService(mediaRepo, cfg.Media, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, addressRepo, basketRepo, productRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMW := middleware.Auth(authService, userRepo)
	adminMW := middleware.RequireRole(model.RoleAdmin)

	mediaHandler := handler.NewMediaHandler(mediaService, logger)

	api := router.Group("/api")
	handler.NewAuthHandler(authService, cfg, logger).Register(api)
	handler.NewUserHandler(usersService, orderService, logger).Register(api, authMW)
	handler.NewUsersHandler(usersService, logger).Register(api, authMW, adminMW)
	handler.NewCategoryHandler(categoryService, logger).Register(api, authMW, adminMW)
	handler.NewMaterialHandler(materialService, logger).Register(api, authMW, adminMW)
	handler.NewProductHandler(productService, logger).Register(api, authMW, adminMW)
	handler.NewOrderHandler(orderService, logger).Register(api, authMW, adminMW)
	mediaHandler.Register(api, authMW, adminMW)

	// Stored files are served outside the API prefix.
	mediaHandler.RegisterServe(router)
	handler.NewHealthHandler(pool).Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
