package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/statuspanel/internal/auth"
	"github.com/2beens/statuspanel/internal/config"
	"github.com/2beens/statuspanel/internal/db"
	"github.com/2beens/statuspanel/internal/middleware"
	"github.com/2beens/statuspanel/internal/session"
	"github.com/2beens/statuspanel/internal/status"
	"github.com/2beens/statuspanel/internal/telemetry/metrics"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/internal/users"
	"github.com/2beens/statuspanel/internal/web"
)

const serviceName = "statuspanel"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config *config.Config
	// exactly one of dbPool / sqlDB is set, depending on the storage driver
	dbPool      *pgxpool.Pool
	sqlDB       *sql.DB
	redisClient *redis.Client

	usersService     *users.Service
	statusService    *status.Service
	authService      *auth.Service
	sessionAuthority *session.Authority
	renderer         *web.Renderer

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config *config.Config
}

type stores struct {
	credentials    users.CredentialStore
	statuses       status.StatusStore
	promCollectors []prometheus.Collector
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, serviceName)
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	s := &Server{
		config:       cfg,
		otelShutdown: otelShutdown,
	}

	st, err := s.openStores(ctx)
	if err != nil {
		return nil, multierr.Combine(err, s.Close())
	}

	s.promRegistry = metrics.SetupPrometheus(st.promCollectors...)
	s.metricsManager = metrics.NewManager(serviceName, "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	sessionStore, err := s.openSessionStore(ctx)
	if err != nil {
		return nil, multierr.Combine(err, s.Close())
	}
	s.sessionAuthority = session.NewAuthority(session.AuthorityParams{
		Store:        sessionStore,
		Secret:       cfg.SessionSecret,
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.SessionCookieSecure,
	})

	s.usersService = users.NewService(st.credentials)
	if err := s.seedAccounts(ctx); err != nil {
		return nil, multierr.Combine(err, s.Close())
	}

	s.statusService = status.NewService(st.statuses, cfg.KnownServices)

	s.authService, err = auth.NewService(s.usersService)
	if err != nil {
		return nil, multierr.Combine(err, s.Close())
	}

	s.renderer, err = web.NewRenderer()
	if err != nil {
		return nil, multierr.Combine(err, s.Close())
	}

	return s, nil
}

func (s *Server) openStores(ctx context.Context) (*stores, error) {
	switch s.config.StorageDriver {
	case config.StorageDriverPostgres:
		if err := db.MigratePostgres(s.config.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DatabaseURL:    s.config.DatabaseURL,
			TracingEnabled: s.config.HoneycombEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		return &stores{
			credentials: users.NewPsqlRepo(dbPool),
			statuses:    status.NewPsqlRepo(dbPool),
			promCollectors: []prometheus.Collector{
				pgxpoolprometheus.NewCollector(dbPool, map[string]string{"db_name": serviceName}),
			},
		}, nil

	case config.StorageDriverSQLite:
		sqlDB, err := db.OpenSQLite(s.config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.sqlDB = sqlDB

		if err := db.MigrateSQLite(sqlDB); err != nil {
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}

		return &stores{
			credentials: users.NewSQLiteRepo(sqlDB),
			statuses:    status.NewSQLiteRepo(sqlDB),
			promCollectors: []prometheus.Collector{
				collectors.NewDBStatsCollector(sqlDB, serviceName),
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", s.config.StorageDriver)
	}
}

func (s *Server) openSessionStore(ctx context.Context) (session.Store, error) {
	switch s.config.SessionStore {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(s.config.RedisHost, s.config.RedisPort),
			Password: s.config.RedisPassword,
			DB:       0, // use default DB
		})
		s.redisClient = rdb
		if s.config.HoneycombEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		return session.NewRedisStore(rdb), nil

	case config.SessionStoreMemory:
		log.Warnln("sessions kept in process memory, they are lost on restart")
		return session.NewMemoryStore(0), nil

	default:
		return nil, fmt.Errorf("unknown session store: %s", s.config.SessionStore)
	}
}

func (s *Server) seedAccounts(ctx context.Context) error {
	if _, err := s.usersService.SeedAdmin(ctx, s.config.SeedAdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if s.config.SeedUsersPath == "" {
		return nil
	}

	created, err := s.usersService.SeedFromFile(ctx, s.config.SeedUsersPath)
	if err != nil {
		return fmt.Errorf("seed users from %s: %w", s.config.SeedUsersPath, err)
	}
	log.Infof("seeded %d accounts from %s", created, s.config.SeedUsersPath)

	return nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	guards := middleware.NewGuards(s.sessionAuthority)

	statusHandler := status.NewHandler(s.statusService, s.renderer, s.metricsManager)
	statusHandler.SetupRoutes(r, guards.RequireAuthenticated())

	authHandler := auth.NewHandler(s.authService, s.sessionAuthority, s.renderer, s.metricsManager)
	authHandler.SetupRoutes(r)

	adminHandler := users.NewHandler(s.usersService, s.renderer, s.metricsManager)
	adminHandler.SetupRoutes(r, guards.RequireAdmin())

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	if err := s.Close(); err != nil {
		log.Errorf("close server resources: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

// Close releases the store, session table and tracing resources.
func (s *Server) Close() error {
	var err error

	if s.otelShutdown != nil {
		s.otelShutdown()
		s.otelShutdown = nil
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if cErr := s.redisClient.Close(); cErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", cErr))
		}
		s.redisClient = nil
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		s.dbPool = nil
		log.Debugln("db pool closed")
	}

	if s.sqlDB != nil {
		if cErr := s.sqlDB.Close(); cErr != nil {
			err = multierr.Append(err, fmt.Errorf("close sqlite: %w", cErr))
		}
		s.sqlDB = nil
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
