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
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/sebamarsal/truco-tournament/config"
	"github.com/sebamarsal/truco-tournament/db"
	"github.com/sebamarsal/truco-tournament/handlers"
	"github.com/sebamarsal/truco-tournament/live"
	"github.com/sebamarsal/truco-tournament/repositories"
	api "github.com/sebamarsal/truco-tournament/routes"
	"github.com/sebamarsal/truco-tournament/services"
	"github.com/sebamarsal/truco-tournament/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn, "migrations"); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Receipt uploads are optional: without R2 credentials the endpoint
	// reports uploads as disabled.
	var uploader storage.FileUploader
	if cfg.UploadsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("receipt uploads disabled: R2 is not configured")
	}

	// Signup notifications are optional too.
	var mailer *services.EmailService
	if cfg.MailEnabled() {
		mailer = services.NewEmailService(cfg)
		logger.Info("email notifications enabled", slog.String("admin_email", cfg.AdminEmail))
	} else {
		logger.Warn("email notifications disabled: SMTP is not configured")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("live hub started")

	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	logger.Info("repositories initialized")

	core := services.NewCore(dbConn, tournamentRepo, participantRepo, teamRepo, groupRepo, matchRepo, bracketRepo, wsHub, logger)

	authService := services.NewAuthService(cfg.AdminUser, cfg.AdminPassHash, cfg.JWTSecretKey)
	inscriptionService := services.NewInscriptionService(participantRepo, uploader, mailer, logger)
	tournamentService := services.NewTournamentService(core)
	drawService := services.NewDrawService(core)
	groupService := services.NewGroupService(core)
	matchService := services.NewMatchService(core)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	inscriptionHandler := handlers.NewInscriptionHandler(inscriptionService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, drawService, groupService, matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg, authHandler, inscriptionHandler, tournamentHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
