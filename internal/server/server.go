package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/internal/analytics"
	"github.com/HabibPro1999/cabinet-optimizer/internal/iam"
	"github.com/HabibPro1999/cabinet-optimizer/internal/inventory"
	"github.com/HabibPro1999/cabinet-optimizer/internal/patients"
	"github.com/HabibPro1999/cabinet-optimizer/internal/schedule"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/config"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
)

const serviceName = "cabinet-admin-api"
const serviceVersion = "1.0.0"

// Server wires the cabinet services behind one HTTP listener
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	db         *database.DB
	httpServer *http.Server
	tracing    *monitoring.TracingManager
}

// New builds the server with all services wired
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.CreateSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	metrics := monitoring.NewMetricsCollector(serviceName)

	var tracing *monitoring.TracingManager
	if cfg.Monitoring.TracingEnabled {
		tracing, err = monitoring.NewTracingManager(&monitoring.TracingConfig{
			ServiceName:    serviceName,
			ServiceVersion: serviceVersion,
			JaegerEndpoint: cfg.Monitoring.JaegerEndpoint,
			Environment:    "production",
			SamplingRate:   cfg.Monitoring.SamplingRate,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	tokens := iam.NewTokenManager(&cfg.JWT)
	authMiddleware := iam.NewAuthMiddleware(tokens, log, metrics)
	guard := access.NewMiddleware(log, metrics)

	iamService := iam.NewService(log, iam.NewRepository(db, log), tokens, metrics)
	scheduleService := schedule.NewService(cfg, log, schedule.NewRepository(db, log), metrics)
	patientsService := patients.NewService(log, patients.NewRepository(db, log))
	inventoryService := inventory.NewService(log, inventory.NewRepository(db, log))
	analyticsService := analytics.NewService(cfg, log, analytics.NewRepository(db, log))

	router := mux.NewRouter()

	monitoringMiddleware := monitoring.NewMonitoringMiddleware(metrics, tracing, log)
	router.Use(monitoringMiddleware.HTTPMiddleware)

	health := monitoring.NewHealthManager(serviceName, serviceVersion)
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	router.HandleFunc(cfg.Monitoring.HealthPath, health.HTTPHandler()).Methods("GET")
	if cfg.Monitoring.Enabled {
		router.Handle(cfg.Monitoring.MetricsPath, metrics.Handler()).Methods("GET")
	}

	public := router.PathPrefix("/api/v1").Subrouter()
	iamHandler := iam.NewHandler(iamService, log)
	iamHandler.RegisterPublicRoutes(public)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Handler)

	iamHandler.RegisterRoutes(api, guard)
	schedule.NewHandler(scheduleService, log).RegisterRoutes(api, guard)
	patients.NewHandler(patientsService, log).RegisterRoutes(api, guard)
	inventory.NewHandler(inventoryService, log).RegisterRoutes(api, guard)
	analytics.NewHandler(analyticsService, log).RegisterRoutes(api, guard)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return &Server{
		config:     cfg,
		logger:     log,
		db:         db,
		httpServer: httpServer,
		tracing:    tracing,
	}, nil
}

// Start begins serving HTTP requests. It blocks until the listener
// fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Infof("Starting %s on %s", serviceName, s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	if s.tracing != nil {
		if err := s.tracing.Shutdown(ctx); err != nil {
			s.logger.WithError(err).Error("Failed to shut down tracing")
		}
	}

	return s.db.Close()
}
