package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/arolitec/taskboard-api/internal/api"
	"github.com/arolitec/taskboard-api/internal/api/middleware"
	"github.com/arolitec/taskboard-api/internal/cache"
	"github.com/arolitec/taskboard-api/internal/config"
	"github.com/arolitec/taskboard-api/internal/notification"
	"github.com/arolitec/taskboard-api/internal/platform/mail"
	"github.com/arolitec/taskboard-api/internal/platform/postgres"
	"github.com/arolitec/taskboard-api/internal/platform/rabbitmq"
	"github.com/arolitec/taskboard-api/internal/service"
	"github.com/arolitec/taskboard-api/internal/service/auth"
)

// application holds every long-lived component of the server. It is
// assembled once at startup and torn down by cleanup at shutdown.
type application struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *redis.Client
	broker      *rabbitmq.Client

	router http.Handler

	// Notification pipeline. Both are nil when the broker connection
	// failed at startup; the server then runs without overdue emails.
	scheduler *notification.Scheduler
	consumer  *notification.Consumer
}

// newApplication wires the full dependency graph. The database is
// required; the cache and the message broker degrade gracefully when
// unreachable.
func newApplication(ctx context.Context, cfg *config.Config, logg *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := postgres.RunMigrations(db, logg); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Stores
	userStore := postgres.NewPostgresUserStore(db, 10, logg)
	taskStore := postgres.NewPostgresTaskStore(db, logg)

	// Listing cache. The Redis client connects lazily; a dead cache at
	// startup only costs a warning, every read falls back to the store.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr()})
	listingCache := cache.NewRedisListingCache(redisClient, cache.DefaultTTL, logg)
	if err := listingCache.Ping(ctx); err != nil {
		logg.Warn("cache unreachable at startup, listings will be served from the store",
			"addr", cfg.Cache.Addr(), "error", err)
	}

	// Outbound email
	mailer, err := mail.NewSMTPMailer(cfg.Mail, logg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up mailer: %w", err)
	}

	// Auth
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()

	// Services
	userService := service.NewUserService(userStore, jwtService, passwordVerifier, logg)
	taskService := service.NewTaskService(taskStore, userStore, listingCache, mailer, logg)

	app := &application{
		cfg:         cfg,
		logger:      logg,
		db:          db,
		redisClient: redisClient,
	}

	// Overdue notification pipeline. A broker that is down at startup
	// disables the pipeline for the process lifetime; task CRUD keeps
	// working.
	broker, err := rabbitmq.Dial(cfg.Broker.URL, logg)
	if err != nil {
		logg.Error("broker unreachable, overdue notifications disabled", "error", err)
	} else {
		app.broker = broker
		dispatcher := notification.NewDispatcher(taskStore, broker, logg)
		app.scheduler = notification.NewScheduler(dispatcher, notification.DefaultSweepInterval, logg)
		app.consumer = notification.NewConsumer(mailer, logg)
	}

	if cfg.Server.SeedUsers {
		if err := seedUsers(ctx, userStore, logg); err != nil {
			logg.Error("failed to seed default users", "error", err)
		}
	}

	authHandler := api.NewAuthHandler(userService)
	taskHandler := api.NewTaskHandler(taskService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	app.router = setupRouter(authHandler, taskHandler, authMiddleware, db, listingCache)

	return app, nil
}

// startBackground launches the scheduler and the queue consumer. It is
// a no-op when the broker connection failed at startup.
func (app *application) startBackground(ctx context.Context) {
	if app.scheduler == nil {
		return
	}

	go app.scheduler.Run(ctx)

	deliveries, err := app.broker.Consume("taskboard-api")
	if err != nil {
		app.logger.Error("failed to start queue consumer, overdue emails disabled", "error", err)
		return
	}
	go app.consumer.Run(ctx, deliveries)
}

// cleanup releases every external connection in reverse dependency
// order. Errors are logged rather than returned; shutdown proceeds
// regardless.
func (app *application) cleanup() {
	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Warn("failed to close broker connection", "error", err)
		}
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Warn("failed to close cache connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database connection", "error", err)
		}
	}
}
