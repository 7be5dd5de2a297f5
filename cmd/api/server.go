package main

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/database"
	adapterHTTP "github.com/comitanigiacomo/kanso-dashboard/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/workers"
)

type repositories struct {
	habits        domain.HabitRepository
	completions   domain.CompletionRepository
	notifications domain.NotificationRepository
	users         domain.UserRepository
}

// app is the wired server. close releases the connections it opened.
type app struct {
	router *gin.Engine
	db     *sqlx.DB
	redis  *redis.Client
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func openStorage(ctx context.Context, cfg *config.Server, log *zap.Logger) (*repositories, *sqlx.DB, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		completions := repository.NewInMemoryCompletionRepository()
		return &repositories{
			habits:        repository.NewInMemoryHabitRepository(completions),
			completions:   completions,
			notifications: repository.NewInMemoryNotificationRepository(),
			users:         repository.NewInMemoryUserRepository(),
		}, nil, nil
	}

	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("database_url is required for postgres storage")
	}

	log.Info("connecting to database")
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("database ready")

	return &repositories{
		habits:        repository.NewPostgresHabitRepository(db),
		completions:   repository.NewPostgresCompletionRepository(db),
		notifications: repository.NewPostgresNotificationRepository(db),
		users:         repository.NewPostgresUserRepository(db),
	}, db, nil
}

// newApp wires storage, services, the retrain worker and the router. The
// worker stops when ctx is cancelled. Redis is optional: without it the
// habit cache, shared model store and rate limiter are off.
func newApp(ctx context.Context, cfg *config.Server, log *zap.Logger) (*app, error) {
	startTime := time.Now()
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }

	repos, db, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &app{db: db}

	var models domain.ModelStore = repository.NewInMemoryModelStore()
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			a.redis = rdb
			repos.habits = repository.NewCachedHabitRepository(repos.habits, rdb)
			models = cache.NewRedisModelStore(rdb)
		}
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, repos.users)
	notifier := services.NewNotificationService(repos.notifications, now)
	predictions := services.NewPredictionService(repos.habits, repos.completions, models, now)

	worker := workers.NewModelWorker(repos.completions, predictions)
	worker.Start(ctx)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(services.NewAuthService(repos.users, tokens)),
		HabitHandler:        adapterHTTP.NewHabitHandler(services.NewHabitService(repos.habits)),
		CompletionHandler:   adapterHTTP.NewCompletionHandler(services.NewCompletionService(repos.completions, repos.habits, worker)),
		StatsHandler:        adapterHTTP.NewStatsHandler(services.NewStatsService(repos.habits, repos.completions, notifier, now)),
		NotificationHandler: adapterHTTP.NewNotificationHandler(notifier),
		PredictionHandler:   adapterHTTP.NewPredictionHandler(predictions),
		TokenService:        tokens,
		Redis:               a.redis,
		RateLimit:           cfg.RateLimit,
		Logger:              log,
		StartTime:           startTime,
	}
	if db != nil {
		deps.DB = db
	}
	a.router = adapterHTTP.NewRouter(deps)
	return a, nil
}
