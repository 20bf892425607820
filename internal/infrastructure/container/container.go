package container

import (
	"fmt"
	"log/slog"

	"github.com/anonmap/anonmap-backend/internal/config"
	"github.com/anonmap/anonmap-backend/internal/delivery/http"
	"github.com/anonmap/anonmap-backend/internal/delivery/http/handler"
	"github.com/anonmap/anonmap-backend/internal/delivery/http/middleware"
	"github.com/anonmap/anonmap-backend/internal/infrastructure/database"
	"github.com/anonmap/anonmap-backend/internal/infrastructure/server"
	"github.com/anonmap/anonmap-backend/internal/infrastructure/storage"
	"github.com/anonmap/anonmap-backend/internal/repository/postgres"
	"github.com/anonmap/anonmap-backend/internal/usecase/moderation"
	"github.com/anonmap/anonmap-backend/internal/usecase/profile"
	"github.com/anonmap/anonmap-backend/internal/usecase/submission"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client
	Avatars *storage.AvatarStore
	Server  *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis. The cache is an optimization; run without it when
	// redis is unreachable.
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, approved-list cache disabled", "error", err)
		redisClient = nil
	}

	// Initialize avatar blob store
	avatarStore, err := storage.NewAvatarStore(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar store: %w", err)
	}

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)

	// Initialize use cases
	profileUseCase := profile.NewUseCase(profileRepo, redisClient)
	moderationUseCase := moderation.NewUseCase(profileRepo, profileUseCase)
	submissionUseCase := submission.NewUseCase(
		submission.NewValidator(),
		submission.NewRateLimiter(profileRepo),
		profileRepo,
		avatarStore,
	)

	// Initialize handlers
	submissionHandler := handler.NewSubmissionHandler(submissionUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	moderationHandler := handler.NewModerationHandler(moderationUseCase)

	// Initialize middleware
	moderationAuth := middleware.NewModerationAuth(cfg.Moderation.Token)

	// Initialize router
	router := http.NewRouter(
		submissionHandler,
		profileHandler,
		moderationHandler,
		moderationAuth,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Avatars: avatarStore,
		Server:  srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Warn("error closing redis", "error", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
