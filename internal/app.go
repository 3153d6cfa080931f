package internal

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dailydigest/internal/api"
	"dailydigest/internal/core"
	"dailydigest/internal/db"
	"dailydigest/internal/env"
	"dailydigest/internal/events"
	"dailydigest/internal/github"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/logger"
	"dailydigest/internal/mailer"
	"dailydigest/internal/operators"
	"dailydigest/internal/scheduler"
	"dailydigest/internal/store"

	"github.com/gofiber/fiber/v3"
)

// Runtime holds the wired services of one process.
type Runtime struct {
	Store     *store.Store
	Mailer    *mailer.Mailer
	Lifecycle *lifecycle.Manager
	Service   *core.Service
	Scheduler *scheduler.Scheduler

	publisher *events.KafkaPublisher
}

// Bootstrap loads configuration, connects to MongoDB and Redis and wires the
// digest pipeline. The scheduler is built but not started.
func Bootstrap(deployment string, envRoot string, appVersion string) (*Runtime, error) {
	env.Init(envRoot, appVersion)
	logger.Initialize(env.LOG_LEVEL, env.LOG_JSON)

	deploy := strings.TrimSpace(deployment)

	// the test profile never touches the real database
	database := env.MONGO_DATABASE
	if deploy == "test" {
		database += "_test"
	}

	if err := db.InitDB(database); err != nil {
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}

	if err := db.InitCache(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}

	rt := &Runtime{}

	if db.Events != nil {
		events.Em = events.NewEmitter(db.Events, deploy)
	} else {
		events.Em = nil
	}

	if events.Em != nil && len(env.KAFKA_BROKERS) > 0 {
		pub, err := events.NewKafkaPublisher(env.KAFKA_BROKERS, env.KAFKA_TOPIC)
		if err != nil {
			logger.Warn(context.Background(), "kafka publisher disabled", "error", err)
		} else {
			events.Em.AttachPublisher(pub)
			rt.publisher = pub
		}
	}

	rt.Store = store.New()
	rt.Mailer = mailer.New(mailer.ConfigFromEnv())
	rt.Lifecycle = lifecycle.New(rt.Store, rt.Mailer, env.SEND_WINDOW)

	clients := github.Factory(github.Options{
		BaseURL:     env.GITHUB_API_BASE,
		CommitStats: env.GITHUB_COMMIT_STATS,
	})
	sources := func(token string) (core.CommitSource, error) {
		client, err := clients(token)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	rt.Service = core.NewService(rt.Store, rt.Store, sources, rt.Lifecycle, core.Config{
		NoisePhrases:  env.NOISE_PHRASES,
		RetentionDays: env.RETENTION_DAYS,
	}).WithTokenCache(store.NewTokenCache(store.TokenCacheTTL))

	loc, err := lifecycle.Location(env.SCHEDULER_TIMEZONE)
	if err != nil {
		return nil, err
	}
	locker := scheduler.NewRedisLocker(db.RDB, "digest:lease:")
	rt.Scheduler = scheduler.New(loc, scheduler.DefaultRetryPolicy, locker)
	for _, job := range rt.Service.Jobs(env.SCHEDULES) {
		if err := rt.Scheduler.Register(job); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// Close stops the scheduler and flushes pending events.
func (rt *Runtime) Close() {
	if rt.Scheduler != nil {
		rt.Scheduler.Stop()
	}
	if events.Em != nil {
		events.Em.Close()
	}
	if rt.publisher != nil {
		_ = rt.publisher.Close()
	}
	if db.RDB != nil {
		_ = db.RDB.Close()
	}
	if db.Client != nil {
		_ = db.Client.Disconnect(context.Background())
	}
}

// SetupApp bootstraps the runtime and mounts every route under /digest.
func SetupApp(deployment string, envRoot string, appVersion string) (*fiber.App, *Runtime) {
	app := fiber.New()

	rt, err := Bootstrap(deployment, envRoot, appVersion)
	if err != nil {
		log.Fatal(err)
		return nil, nil
	}

	digest := app.Group("/digest")

	digest.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	digest.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	operators.Routes(digest, rt.Store)
	api.Routes(digest, api.NewHandler(rt.Store, rt.Service, rt.Lifecycle, rt.Mailer, rt.Scheduler))

	return app, rt
}
