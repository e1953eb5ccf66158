package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libdb "chargenet/backend/libs/db"
	libredis "chargenet/backend/libs/redis"
	"chargenet/backend/services/roaming-api/internal/config"
	"chargenet/backend/services/roaming-api/internal/domain"
	httpserver "chargenet/backend/services/roaming-api/internal/http"
	"chargenet/backend/services/roaming-api/internal/http/handlers"
	"chargenet/backend/services/roaming-api/internal/http/middleware"
	"chargenet/backend/services/roaming-api/internal/mqtt"
	redisstore "chargenet/backend/services/roaming-api/internal/redis"
	"chargenet/backend/services/roaming-api/internal/repository"
	"chargenet/backend/services/roaming-api/internal/seed"
	"chargenet/backend/services/roaming-api/internal/ws"
)

// App wires roaming-api dependencies.
type App struct {
	server         *httpserver.Server
	handler        http.Handler
	registry       *domain.Registry
	wsManager      *ws.Manager
	expiryInterval time.Duration
	db             *sql.DB
	redisClient    *redis.Client
	publisher      *mqtt.Publisher
	logger         *zap.Logger
}

// New constructs the application graph. Postgres, redis and MQTT are wired only when
// configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger, expiryInterval: cfg.Reservations.ExpiryInterval}

	var sinks domain.MultiSink
	var archive domain.CDRArchive

	if cfg.Database.DSN != "" {
		sqlDB, err := libdb.NewPostgresDB(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = sqlDB
		repo := repository.NewCDRRepository(sqlDB)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		archive = repo
	}

	if cfg.Redis.Addr != "" {
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redisClient = client
		sinks = append(sinks, redisstore.NewStore(client, cfg.ActiveSessionTTL(), logger))
	}

	if cfg.MQTT.Broker != "" {
		a.publisher = mqtt.NewPublisher(mqtt.PublisherConfig{
			BrokerURL:   cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			QoS:         cfg.MQTT.QoS,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, logger)
		if err := a.publisher.Connect(); err != nil {
			a.Close()
			return nil, err
		}
		sinks = append(sinks, a.publisher)
	}

	var events handlers.EventStream
	if cfg.Events.Enabled {
		a.wsManager = ws.NewManager(cfg.Events.PingInterval, logger)
		sinks = append(sinks, a.wsManager)
		events = ws.NewServer(a.wsManager, 10*time.Second, logger)
	}

	a.registry = domain.NewRegistry(domain.NetworkOptions{
		HistorySize: cfg.Status.HistorySize,
		CDRArchive:  archive,
		Events:      sinks,
	})

	if cfg.Seed.File != "" {
		f, err := seed.Load(cfg.Seed.File)
		if err == nil {
			err = f.Apply(a.registry)
		}
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("seed loaded", zap.String("file", cfg.Seed.File), zap.Int("roaming_networks", a.registry.Count()))
	}

	h := handlers.New(a.registry, logger, handlers.Options{
		CommandTimeout: cfg.Commands.Timeout,
		Events:         events,
	})
	router := httpserver.NewRouter(h.Routes(), httpserver.RouterOptions{
		ServerName:  cfg.ServiceName,
		Middlewares: []func(http.Handler) http.Handler{middleware.AuthMiddleware(cfg.JWT.Secret)},
	})
	a.handler = middleware.Chain(router,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)
	a.server = httpserver.NewServer(cfg.HTTPAddress(), a.handler, cfg.Commands.Timeout, logger)
	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Registry returns the roaming network registry.
func (a *App) Registry() *domain.Registry {
	return a.registry
}

// Run serves HTTP and runs the background loops until ctx ends or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.server.Run(ctx) })
	g.Go(func() error { return a.expireReservations(ctx) })
	if a.wsManager != nil {
		g.Go(func() error { return a.wsManager.Start(ctx) })
	}
	return g.Wait()
}

func (a *App) expireReservations(ctx context.Context) error {
	if a.expiryInterval <= 0 {
		return nil
	}
	ticker := time.NewTicker(a.expiryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := a.registry.ExpireReservations(ctx); n > 0 {
				a.logger.Info("reservations expired", zap.Int("count", n))
			}
		}
	}
}

// Close releases resources.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Disconnect()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
