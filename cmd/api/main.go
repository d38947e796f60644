package main

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
)

const migrationsDir = "migrations"

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			ProvideDatabase,
			ProvideRedis,
			ProvideAuthService,
			ProvideEventPublisher,
			service.NewEmailService,
			ProvidePlanService,
			ProvidePlanGenerator,
			ProvidePlanExporter,
			ProvideRateLimiter,
			service.NewFoodPriceService,
			service.NewSubscriptionService,
			ProvideDeps,
			server.New,
		),
		fx.Invoke(SeedDemoAccounts),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, migrationsDir); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing database connection")
			return database.Close(db)
		},
	})
	return db, nil
}

// ProvideRedis returns nil when Redis is not configured or unreachable;
// generation is then not rate limited.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	client, err := database.NewRedisClient(cfg)
	if errors.Is(err, database.ErrRedisDisabled) {
		log.Println("Redis not configured, plan generation rate limiting disabled")
		return nil
	}
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis for rate limiting: %v", err)
		return nil
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func ProvideAuthService(db *gorm.DB, cfg *config.Config) service.IAuthService {
	return service.NewAuthService(db, cfg.JWTSecret)
}

func ProvideEventPublisher(lc fx.Lifecycle, cfg *config.Config) service.IEventPublisher {
	events := service.NewEventPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return events.Close()
		},
	})
	return events
}

func ProvidePlanService(db *gorm.DB, events service.IEventPublisher, email *service.EmailService) *service.PlanService {
	return service.NewPlanService(db, events, email)
}

func ProvidePlanGenerator(cfg *config.Config) (*service.PlanGenerator, error) {
	provider, err := service.NewCompletionProvider(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return service.NewPlanGenerator(provider, cfg.LLMTimeout), nil
}

// ProvidePlanExporter returns nil when no bucket is configured; the export
// endpoint then answers 503.
func ProvidePlanExporter(cfg *config.Config) (service.IPlanExporter, error) {
	store, err := config.NewS3Config(context.Background(), cfg)
	if errors.Is(err, config.ErrStorageDisabled) {
		log.Println("S3 bucket not configured, plan export disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return service.NewPlanExporter(store), nil
}

func ProvideRateLimiter(client *redis.Client, cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewPlanGenerationRateLimiter(client, cfg.PlanRateLimit)
}

func ProvideDeps(
	cfg *config.Config,
	db *gorm.DB,
	auth service.IAuthService,
	plans *service.PlanService,
	generator *service.PlanGenerator,
	exporter service.IPlanExporter,
	limiter *middleware.RateLimiter,
	foodPrices *service.FoodPriceService,
	subscriptions *service.SubscriptionService,
) api.Deps {
	return api.Deps{
		Config:              cfg,
		DB:                  db,
		AuthService:         auth,
		PlanService:         plans,
		Generator:           generator,
		FoodPriceService:    foodPrices,
		SubscriptionService: subscriptions,
		Exporter:            exporter,
		PlanLimiter:         limiter,
	}
}

// SeedDemoAccounts creates the demo accounts on local SQLite stores or when
// SEED_DEMO_ACCOUNTS is set
func SeedDemoAccounts(cfg *config.Config, auth service.IAuthService) error {
	if !cfg.UsesSQLite() && !cfg.SeedDemoAccounts {
		return nil
	}
	created, err := database.SeedDemoAccounts(context.Background(), auth)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d demo accounts", created)
	return nil
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Printf("Server error: %v", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
