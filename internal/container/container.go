package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/miniurl/internal/analytics"
	analyticsstore "github.com/serroba/miniurl/internal/analytics/store"
	"github.com/serroba/miniurl/internal/config"
	"github.com/serroba/miniurl/internal/handlers"
	"github.com/serroba/miniurl/internal/health"
	"github.com/serroba/miniurl/internal/messaging"
	"github.com/serroba/miniurl/internal/middleware"
	"github.com/serroba/miniurl/internal/reaper"
	"github.com/serroba/miniurl/internal/shortener"
	"github.com/serroba/miniurl/internal/store"
	"go.uber.org/zap"
)

// AnalyticsConsumerGroup is the Redis stream consumer group shared by analytics consumers.
const AnalyticsConsumerGroup = "analytics"

type Options struct {
	Port         int    `default:"8888"              help:"Port to listen on"                                short:"p"`
	BaseURL      string `help:"Public base URL for short links (default http://localhost:<port>)"`
	ConfigFile   string `default:"config.properties" help:"Properties file holding global.expiration.time"   short:"f"`
	CodeStrategy string `default:"counter"           help:"Code generation strategy: counter or nanoid"      short:"s"`
	CodeLength   int    `default:"8"                 help:"Length of nanoid codes"                           short:"c"`
	RedisAddr    string `default:"localhost:6379"    help:"Redis server address"                             short:"r"`
	DatabaseURL  string `help:"PostgreSQL URL for analytics; empty logs events"  short:"d"`
	LogFormat    string `default:"console"           help:"Log format: console or json"                      short:"l"`
}

// PublicBaseURL returns BaseURL, or a localhost URL on Port when it is unset.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// NewLogger builds a development logger for "console" and a production logger for "json".
func NewLogger(format string) (*zap.Logger, error) {
	switch format {
	case "", "console":
		return zap.NewDevelopment()
	case "json":
		return zap.NewProduction()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return NewLogger(opts.LogFormat)
	})
}

func ConfigPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*config.Config, error) {
		opts := do.MustInvoke[*Options](i)

		return config.Load(opts.ConfigFile)
	})
}

// CorePackage provides the alias store, the service facade and the reaper.
// The reaper publishes through handlers.Publishers, so either PublisherGroupPackage
// or DiscardEventsPackage must be registered too.
func CorePackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})

	do.Provide(i, func(_ *do.Injector) (*store.OwnerStore, error) {
		return store.NewOwnerStore(), nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.CodeGenerator, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewCodeGenerator(shortener.Strategy(opts.CodeStrategy), opts.CodeLength)
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Store, error) {
		generate, err := do.Invoke[shortener.CodeGenerator](i)
		if err != nil {
			return nil, err
		}

		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewStore(
			do.MustInvoke[*store.MemoryStore](i),
			do.MustInvoke[*store.OwnerStore](i),
			generate,
			cfg.TTLCeiling,
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		s, err := do.Invoke[*shortener.Store](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(s, do.MustInvoke[*store.OwnerStore](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*reaper.Reaper, error) {
		s, err := do.Invoke[*shortener.Store](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)
		publish := do.MustInvoke[handlers.Publishers](i)

		return reaper.New(s,
			reaper.WithReapHook(func(ctx context.Context, codes []shortener.Code) {
				logger.Info("expired aliases reaped", zap.Int("count", len(codes)))

				now := time.Now()
				for _, code := range codes {
					event := &analytics.AliasRemovedEvent{
						Code:      string(code),
						Reason:    analytics.ReasonExpired,
						RemovedAt: now,
					}

					if err := publish.Removed(ctx, event); err != nil {
						logger.Error("failed to publish analytics event",
							zap.String("topic", analytics.TopicAliasRemoved),
							zap.String("code", event.Code),
							zap.Error(err),
						)
					}
				}
			}),
			reaper.WithErrorHook(func(err error) {
				logger.Error("reap failed", zap.Error(err))
			}),
		), nil
	})
}

// DiscardEventsPackage provides publishers that drop every event, for processes without Redis.
func DiscardEventsPackage(i *do.Injector) {
	do.ProvideValue(i, handlers.DiscardPublishers())
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the analytics store: PostgreSQL when a database URL
// is configured, otherwise a store that only logs.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("no database url configured")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return pool, nil
	})

	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.DatabaseURL == "" {
			logger.Info("no database configured, analytics events are only logged")

			return analyticsstore.NewNoop(logger), nil
		}

		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}

		pg := analyticsstore.NewPostgres(pool)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}

		return pg, nil
	})
}

func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := messaging.NewRedisPublisher(do.MustInvoke[*redis.Client](i), do.MustInvoke[*zap.Logger](i))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (handlers.Publishers, error) {
		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return handlers.Publishers{}, err
		}

		pub := group.Publisher()

		return handlers.Publishers{
			Created: messaging.NewPublishFunc[analytics.AliasCreatedEvent](pub, analytics.TopicAliasCreated),
			Visited: messaging.NewPublishFunc[analytics.AliasVisitedEvent](pub, analytics.TopicAliasVisited),
			Removed: messaging.NewPublishFunc[analytics.AliasRemovedEvent](pub, analytics.TopicAliasRemoved),
		}, nil
	})
}

func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		analyticsStore, err := do.Invoke[analytics.Store](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := messaging.NewRedisSubscriber(do.MustInvoke[*redis.Client](i), AnalyticsConsumerGroup, logger)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, subscriber, analyticsStore, logger)

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("miniurl", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		aliasHandler := handlers.NewAliasHandler(service, opts.PublicBaseURL(), do.MustInvoke[handlers.Publishers](i), logger)
		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			do.MustInvoke[*store.MemoryStore](i),
		)

		health.RegisterRoutes(api, healthHandler)
		handlers.RegisterRoutes(api, aliasHandler)

		return api, nil
	})
}
