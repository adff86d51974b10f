package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"luxestate/docs" // swagger docs
	"luxestate/internal/auth"
	"luxestate/internal/cache"
	"luxestate/internal/config"
	"luxestate/internal/db"
	"luxestate/internal/handler"
	"luxestate/internal/logger"
	"luxestate/internal/repository"
	"luxestate/internal/router"
	"luxestate/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Luxestate API
// @version 1.0
// @description Property registry and booking API with JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.Setup(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	if err := run(cfg); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logger.Default()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return err
	}

	var cacheClient *cache.Client
	if cfg.CacheEnabled {
		cacheClient = cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cacheClient.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, property reads will bypass the cache", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	propertyRepo := repository.NewPropertyRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret)
	sync := service.NewAvailabilitySynchronizer(cacheClient)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	propertyService := service.NewPropertyService(propertyRepo, userRepo, cacheClient, cfg.Policy)
	bookingService := service.NewBookingService(txManager, bookingRepo, userRepo, sync, cfg.Policy)
	reconciler := service.NewReconciler(txManager, propertyRepo, bookingRepo, sync)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, tokens, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Properties: handler.NewPropertyHandler(propertyService),
		Bookings:   handler.NewBookingHandler(bookingService),
	})

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
		docs.SwaggerInfo.Host = host
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.ServerPort
		log.Info("http server listening", "addr", addr, "swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.ReconcileInterval > 0 {
		g.Go(func() error {
			log.Info("availability reconciler started", "interval", cfg.ReconcileInterval)
			return reconciler.Run(ctx, cfg.ReconcileInterval)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
