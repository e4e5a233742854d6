package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/quimipool/quimipool/infrastructure/http/middleware"
	"github.com/quimipool/quimipool/infrastructure/service/logger"
	"github.com/quimipool/quimipool/infrastructure/service/password"
	"github.com/quimipool/quimipool/infrastructure/service/ratelimit"
	"github.com/quimipool/quimipool/infrastructure/service/token"
	httpadapter "github.com/quimipool/quimipool/internal/adapter/http"
	"github.com/quimipool/quimipool/internal/adapter/persistence"
	"github.com/quimipool/quimipool/internal/config"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/usecase"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "quimipool-admin",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Server.Environment,
	})

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	limiter, err := ratelimit.New(ratelimit.Config{
		Enabled:  cfg.Redis.Enabled,
		RedisURL: cfg.Redis.URL,
	}, logrus.New())
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}

	tokens, err := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	passwords := password.NewBcryptService(cfg.Auth.BcryptCost)

	// Persistence adapters.
	recordStore := persistence.NewPostgresRecordStore(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)
	directory := persistence.NewPostgresEmployeeDirectory(db)

	// Audit core.
	session := usecase.NewSessionContext()
	resolver := usecase.NewActorResolver(middleware.ContextAuthProvider{}, directory, structuredLogger)
	recorder := usecase.NewAuditRecorder(auditRepo, resolver, session, structuredLogger)

	// Per-entity facades.
	services := map[string]httpadapter.EntityOperations{}
	for name := range domain.Entities {
		service, err := usecase.NewEntityService(name, recordStore, recorder, structuredLogger)
		if err != nil {
			log.Fatalf("Failed to build entity facade for %s: %v", name, err)
		}
		services[name] = service
	}

	auditQueries := usecase.NewAuditQueryService(auditRepo)
	authUseCase := usecase.NewAuthUseCase(
		directory, passwords, tokens, limiter, recorder, structuredLogger,
		cfg.Auth.LoginAttempts, cfg.Auth.LoginWindow,
	)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Port:           cfg.Server.Port,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		structuredLogger,
		middleware.NewAuthMiddleware(tokens),
		httpadapter.NewEntityHandler(services),
		httpadapter.NewAuditHandler(auditQueries),
		httpadapter.NewAuthHandler(authUseCase),
	)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			structuredLogger.Error(ctx, "HTTP server stopped", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Graceful shutdown failed", err, nil)
	}
	structuredLogger.Info(ctx, "Application stopped", map[string]interface{}{
		"session_id": session.ID(),
	})
}
