package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/api"
	"synthesized/web/internal/config"
	"synthesized/web/internal/mail"
	"synthesized/web/internal/repository/postgres"
	"synthesized/web/internal/service"
)

func main() {
	log.Println("Starting Synthesized server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection & Migrations ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := postgres.Open(ctx, cfg.Database.DSN)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: Could not connect to Postgres: %v", err)
	}
	defer func() {
		log.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	log.Println("Running database migrations...")
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 1*time.Minute)
	err = postgres.RunMigrations(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		log.Fatalf("FATAL: Could not run migrations: %v", err)
	}
	log.Println("Database ready.")

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewLoginTokenRepository(db)
	sessionRepo := postgres.NewTrainingSessionRepository(db)
	exerciseRepo := postgres.NewExerciseRepository(db)
	sessionExerciseRepo := postgres.NewSessionExerciseRepository(db)

	// --- Mail Delivery ---
	var sender mail.Sender
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(cfg.SMTP)
	} else {
		log.Println("No SMTP host configured; sign-in links are written to the log.")
		sender = mail.NewLogSender()
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(
		userRepo, tokenRepo, sender,
		cfg.Server.BaseURL, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration, cfg.Auth.OTPExpiration,
	)
	logbookService := service.NewLogbookService(sessionRepo, exerciseRepo, sessionExerciseRepo)
	accountService := service.NewAccountService(authService, sessionRepo, exerciseRepo, sessionExerciseRepo)

	// --- Initialize Gin Engine ---
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware
	router.LoadHTMLGlob("web/templates/*.tmpl")
	router.Static("/static", "web/static")

	log.Println("Setting up routes...")
	api.SetupRoutes(router, authService, logbookService, accountService,
		cfg.Server.IsProduction(), cfg.Auth.JWTExpiration)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
