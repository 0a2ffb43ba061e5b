package main

import (
	"clinic/cmd/internal/auth"
	"clinic/cmd/internal/config"
	"clinic/cmd/internal/domain/storage"
	"clinic/cmd/internal/domain/storage/repository"
	"clinic/cmd/internal/middleware"
	"clinic/cmd/internal/routes"
	"clinic/cmd/internal/service"
	"clinic/cmd/internal/utils/validators"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.SetLevel(cfg.Level())

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(db); err != nil {
			log.Errorf("failed to close database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validators.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewMedicalRecordRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, validate, auth.NewBcryptHasher(0), tokens)
	apptService := service.NewAppointmentService(apptRepo, recordRepo, userRepo, validate)
	dashService := service.NewDashboardService(userService, apptService)

	if cfg.HasAdmin() {
		if err := userService.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	e := routes.NewRouter(routes.RouterOptions{
		Users:        userService,
		Appointments: apptService,
		Dashboard:    dashService,
		DB:           routes.PingFunc(func() error { return storage.Ping(db) }),
		Tokens:       tokens,
		Accounts:     userRepo,
		Limiter:      middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSOrigins:  cfg.CORSOrigins,
		TrustProxy:   cfg.TrustProxy,
		AccessLog:    true,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Infof("starting server on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := storage.Init(storage.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}
