package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	authService "authgate/internal/application/auth"
	registrationService "authgate/internal/application/registration"
	"authgate/internal/delivery/http/handler"
	"authgate/internal/delivery/http/router"
	"authgate/internal/infrastructure/config"
	"authgate/internal/infrastructure/database"
	"authgate/internal/infrastructure/mail"
	"authgate/internal/infrastructure/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load configuration
	cfg := config.Load()

	// Initialize credential store
	dsn := cfg.DatabasePath
	if cfg.DatabaseDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := database.New(cfg.DatabaseDriver, dsn)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}
	defer rdb.Close()

	// Initialize repositories and collaborators
	userRepo := repository.NewUserRepository(db)
	sessionStore := repository.NewRedisSessionStore(rdb)
	mailer := mail.NewSMTPDispatcher(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		Secure:   cfg.SMTPSecure,
	})

	// Initialize services
	strategy := authService.NewLocalStrategy(userRepo)
	authSvc := authService.NewService(strategy, sessionStore, userRepo, cfg.SessionTTL)
	regSvc := registrationService.NewService(userRepo, mailer, cfg.BaseURL, cfg.DefaultAvatarURL)

	// Initialize handlers and routes
	authHandler := handler.NewAuthHandler(authSvc, regSvc, cfg.SessionCookie, cfg.SecureCookies)
	mux := router.Setup(router.Handlers{Auth: authHandler}, authSvc, cfg.SessionCookie)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting server",
		"addr", addr,
		"database", cfg.DatabaseDriver,
		"redis", cfg.RedisAddr,
		"session_ttl", cfg.SessionTTL,
	)
	log.Fatal(http.ListenAndServe(addr, mux))
}
