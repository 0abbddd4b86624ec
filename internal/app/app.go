// Package app assembles the store, broker, services and HTTP router from a
// loaded config.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/odonto/admin-api/internal/config"
	agendaHandler "github.com/odonto/admin-api/internal/handler/agenda"
	appointmentHandler "github.com/odonto/admin-api/internal/handler/appointment"
	dashboardHandler "github.com/odonto/admin-api/internal/handler/dashboard"
	financeHandler "github.com/odonto/admin-api/internal/handler/finance"
	"github.com/odonto/admin-api/internal/handler/health"
	notificationHandler "github.com/odonto/admin-api/internal/handler/notification"
	patientHandler "github.com/odonto/admin-api/internal/handler/patient"
	procedureHandler "github.com/odonto/admin-api/internal/handler/procedure"
	promHandler "github.com/odonto/admin-api/internal/handler/prometheus"
	prontuarioHandler "github.com/odonto/admin-api/internal/handler/prontuario"
	"github.com/odonto/admin-api/internal/handler/realtime"
	"github.com/odonto/admin-api/internal/middleware"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/repository/memory"
	"github.com/odonto/admin-api/internal/repository/postgres"
	"github.com/odonto/admin-api/internal/router"
	"github.com/odonto/admin-api/internal/service/agenda"
	"github.com/odonto/admin-api/internal/service/appointment"
	"github.com/odonto/admin-api/internal/service/dashboard"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/internal/service/finance"
	"github.com/odonto/admin-api/internal/service/notification"
	"github.com/odonto/admin-api/internal/service/patient"
	"github.com/odonto/admin-api/internal/service/procedure"
	"github.com/odonto/admin-api/internal/service/prontuario"
	"github.com/odonto/admin-api/internal/worker"
	"github.com/odonto/admin-api/pkg/blob"
	"github.com/odonto/admin-api/pkg/logger"
	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/messaging/redis"
	"github.com/odonto/admin-api/pkg/metrics"
)

const metricsNamespace = "odonto"

// Options overrides the pieces New would otherwise build from the config.
// Tests use it to pin the clock and keep everything in memory.
type Options struct {
	Now    func() time.Time
	Rand   *rand.Rand
	Store  repository.Store
	Broker messaging.Broker
	Blobs  blob.Store
}

type App struct {
	Config        *config.Config
	Logger        *logger.Logger
	Store         repository.Store
	Broker        messaging.Broker
	Metrics       *metrics.Metrics
	Router        *router.Router
	Notifications notification.Service
	Agenda        agenda.Service
	Refresher     *worker.NotificationRefreshWorker
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	loc := cfg.Location()
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, metricsNamespace)

	a := &App{Config: cfg, Logger: log, Metrics: m}

	store, err := newStore(ctx, cfg, m, opts, loc)
	if err != nil {
		return nil, err
	}
	a.Store = store

	broker, err := newBroker(cfg, log, m, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	a.Broker = broker

	blobs := opts.Blobs
	if blobs == nil {
		if cfg.Storage.Dir != "" {
			fs, err := blob.NewFSStore(cfg.Storage.Dir)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to open storage dir: %w", err)
			}
			blobs = fs
		} else {
			blobs = blob.NewMemoryStore()
		}
	}

	events := event.NewEventService(broker, log.Component("events"))
	session := notification.NewSession()

	appointments := appointment.NewService(store, events, m, log.Component("appointments"), appointment.Config{
		Now: opts.Now, Location: loc, Dentists: cfg.Clinic.Dentists,
	})
	a.Agenda = agenda.NewService(store, events, m, log.Component("agenda"), agenda.Config{
		Now: opts.Now, Location: loc, CacheTTL: cfg.Agenda.CacheTTL,
	})
	a.Notifications = notification.NewService(store, session, events, m, log.Component("notifications"), notification.Config{
		Now: opts.Now, Location: loc,
	})
	patients := patient.NewService(store, events, log.Component("patients"))
	procedures := procedure.NewService(store, events, log.Component("procedures"))
	finances := finance.NewService(store, session, events, log.Component("finance"), finance.Config{
		Now: opts.Now, Location: loc,
	})
	dash := dashboard.NewService(store, log.Component("dashboard"), dashboard.Config{
		Now: opts.Now, Location: loc,
	})
	records := prontuario.NewService(store, blobs, events, log.Component("prontuario"), prontuario.Config{
		Now: opts.Now, Location: loc, DefaultDentist: cfg.Clinic.Dentists[0],
	})

	a.Refresher = worker.NewNotificationRefreshWorker(a.Notifications, cfg.Notifications.RefreshInterval, log.Component("worker"))

	httpLogger := log.Component("http")
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	routerConfig := router.RouterConfig{
		Mode:           cfg.Server.Mode,
		RateLimit:      rate.Limit(cfg.RateLimit.RPS),
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     cors,
		Logger:         httpLogger,
	}
	a.Router = router.NewRouter(routerConfig,
		promHandler.New(registry),
		health.NewHandler(store),
		appointmentHandler.NewHandler(appointments),
		agendaHandler.NewHandler(a.Agenda),
		notificationHandler.NewHandler(a.Notifications),
		patientHandler.NewHandler(patients),
		procedureHandler.NewHandler(procedures),
		financeHandler.NewHandler(finances),
		dashboardHandler.NewHandler(dash),
		prontuarioHandler.NewHandler(records, log.Component("prontuario")),
		realtime.NewHandler(broker, a.Notifications, a.Agenda, m, log.Component("realtime"), realtime.Config{
			TickInterval: cfg.Agenda.TickInterval,
			Now:          opts.Now,
			Location:     loc,
		}),
	)
	a.Router.Setup(routerConfig)

	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics, opts Options, loc *time.Location) (repository.Store, error) {
	if opts.Store != nil {
		return opts.Store, nil
	}
	if cfg.Demo() {
		return memory.New(memory.Options{Now: opts.Now, Rand: opts.Rand, Location: loc}), nil
	}
	db, err := postgres.NewDB(ctx, postgres.DatabaseConfig{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	return postgres.NewStore(db, m), nil
}

func newBroker(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, opts Options) (messaging.Broker, error) {
	if opts.Broker != nil {
		return opts.Broker, nil
	}
	if cfg.Redis.URL == "" {
		return messaging.NewLocalBroker(64), nil
	}
	zl := log.Component("redis")
	return redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
	}, &zl, m)
}

// Start runs the notification refresh worker and the agenda cache listener
// until ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.Agenda.Listen(ctx, a.Broker); err != nil {
		return fmt.Errorf("failed to subscribe agenda cache: %w", err)
	}
	go a.Refresher.Start(ctx)
	return nil
}

func (a *App) Close() error {
	var first error
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			first = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
