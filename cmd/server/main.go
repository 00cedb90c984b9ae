// Package main initializes and starts the vault API server, wiring
// configuration, logging, database, repositories, services, and handlers.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/nstepanov/passvault/internal/config"
	"github.com/nstepanov/passvault/internal/db"
	"github.com/nstepanov/passvault/internal/logger"
	"github.com/nstepanov/passvault/internal/repository"
	"github.com/nstepanov/passvault/internal/server/handler/http"
	"github.com/nstepanov/passvault/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Default()
	flag.StringVar(&options.Address, "a", options.Address, "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", options.DatabaseDSN, "db address")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	flag.Parse()
	options.Load()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Sweep expired sessions in the background.
	db.StartSessionCleaner(context.Background(), postgresDB,
		time.Hour, // interval
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	vaultRepo := repository.NewPostgresVaultRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, sessionRepo,
		service.LockoutPolicy{
			MaxAttempts:  options.MaxLoginAttempts,
			Window:       time.Duration(options.LoginWindowMinutes) * time.Minute,
			LockDuration: time.Duration(options.LockDurationMinutes) * time.Minute,
		},
		time.Duration(options.SessionTTLHours)*time.Hour,
	)
	vaultService := service.NewVaultService(vaultRepo, options.SecretKey, options.SecretKey2)

	// Create HTTP handlers and the router.
	authHandler := &http.AuthHandler{AuthService: authService}
	vaultHandler := &http.VaultHandler{VaultService: vaultService}
	router := http.NewRouter(authHandler, vaultHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
