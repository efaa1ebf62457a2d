package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleanclear-sd/lead-api/docs"
	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/cleanclear-sd/lead-api/internal/content"
	"github.com/cleanclear-sd/lead-api/internal/database"
	"github.com/cleanclear-sd/lead-api/internal/datawarehouse"
	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/http/handler"
	"github.com/cleanclear-sd/lead-api/internal/http/middleware"
	"github.com/cleanclear-sd/lead-api/internal/http/router"
	"github.com/cleanclear-sd/lead-api/internal/jobs"
	"github.com/cleanclear-sd/lead-api/internal/logger"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/storage"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Clean & Clear Lead API
// @version 1.0
// @description Quote requests, lead pipeline and website content for Clean & Clear window and solar panel cleaning

// @contact.name Clean & Clear Support
// @contact.email info@cleanclearsd.com

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

const jobTimeout = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "leads-staging.cleanclearsd.com"
	case "production":
		docs.SwaggerInfo.Host = "leads.cleanclearsd.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	dwClient, err := datawarehouse.NewClient(&cfg.DataWarehouse, log)
	if err != nil {
		log.Warn("Data warehouse connection failed, continuing without it", zap.Error(err))
		dwClient = nil
	}

	// Event sinks
	var hub *events.Hub
	if cfg.Realtime.Enabled {
		hub = events.NewHub(log.Named("realtime"), middleware.WebSocketOrigins(&cfg.CORS))
	}

	var (
		natsConn   *nats.Conn
		natsServer *server.Server
		natsPub    *events.NATSPublisher
	)
	if cfg.NATS.Enabled {
		natsConn, natsServer, err = events.Connect(cfg.NATS.URL, log)
		if err != nil {
			log.Warn("NATS unavailable, lead events will not be published", zap.Error(err))
		} else {
			natsPub = events.NewNATSPublisher(natsConn, cfg.NATS.SubjectPrefix, log.Named("nats"))
		}
	}

	var analytics *events.AnalyticsPublisher
	if cfg.Analytics.Enabled && cfg.Analytics.APIKey != "" {
		analytics, err = events.NewAnalyticsPublisher(events.AnalyticsConfig{
			APIKey:      cfg.Analytics.APIKey,
			Endpoint:    cfg.Analytics.Endpoint,
			Environment: cfg.App.Environment,
		}, log)
		if err != nil {
			log.Warn("PostHog client could not be created, analytics disabled", zap.Error(err))
			analytics = nil
		}
	}

	publisher := events.NewMulti(log.Named("events"), sinks(hub, natsPub, analytics)...)
	log.Info("Lead event publishing configured", zap.Int("sinks", publisher.Len()))

	services, err := newApp(cfg, db, fileStorage, publisher, log)
	if err != nil {
		return err
	}

	// Changes made by other processes reach admin clients through the database
	listenerDone := make(chan struct{})
	if hub != nil && cfg.Realtime.ListenChannel != "" {
		listener := events.NewPGListener(cfg.Database.URL(), cfg.Realtime.ListenChannel, hub, log.Named("pglisten"))
		go func() {
			defer close(listenerDone)
			_ = listener.Run(ctx)
		}()
	} else {
		close(listenerDone)
	}

	scheduler, err := startJobs(cfg, services.leads, services.wizards, dwClient, log)
	if err != nil {
		return err
	}

	var realtimeHandler *handler.RealtimeHandler
	if hub != nil {
		realtimeHandler = handler.NewRealtimeHandler(hub)
	}
	rt := services.router(cfg, db, dwClient, realtimeHandler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			runErr = err
		}
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Scheduler stopped")
	}

	stop()
	<-listenerDone
	if hub != nil {
		hub.Close()
	}
	if analytics != nil {
		if err := analytics.Close(); err != nil {
			log.Warn("Error flushing analytics", zap.Error(err))
		}
	}
	events.Shutdown(natsConn, natsServer)
	if err := dwClient.Close(); err != nil {
		log.Warn("Error closing data warehouse connection", zap.Error(err))
	}

	log.Info("Server stopped")
	return runErr
}

// app holds the services behind the HTTP API
type app struct {
	leads     *service.LeadService
	wizards   *service.WizardService
	contents  *service.ContentService
	images    *service.SiteImageService
	customers *service.CustomerService
	jobs      *service.JobService
	contacts  *service.ContactService
}

// newApp builds the repositories and services over db
func newApp(cfg *config.Config, db *gorm.DB, files storage.Storage, publisher events.Publisher, log *zap.Logger) (*app, error) {
	leadRepo := repository.NewLeadRepository(db)
	historyRepo := repository.NewLeadStatusHistoryRepository(db)
	contentRepo := repository.NewWebsiteContentRepository(db)
	siteImageRepo := repository.NewSiteImageRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	contactRepo := repository.NewContactSubmissionRepository(db)

	contentSchema, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load content schema: %w", err)
	}

	leadService := service.NewLeadService(leadRepo, historyRepo, publisher, log, db)
	return &app{
		leads:     leadService,
		wizards:   service.NewWizardService(leadService, cfg.Wizard.SessionTTLDuration(), log),
		contents:  service.NewContentService(contentRepo, contentSchema, log),
		images:    service.NewSiteImageService(siteImageRepo, files, cfg.Storage.MaxUploadSizeMB<<20, log),
		customers: service.NewCustomerService(customerRepo, jobRepo, leadRepo, log, db),
		jobs:      service.NewJobService(jobRepo, customerRepo, log),
		contacts:  service.NewContactService(contactRepo, log),
	}, nil
}

// router wires the handlers. realtimeHandler is nil when the change feed is
// disabled.
func (a *app) router(
	cfg *config.Config,
	db *gorm.DB,
	warehouse handler.WarehouseChecker,
	realtimeHandler *handler.RealtimeHandler,
	log *zap.Logger,
) *router.Router {
	return router.NewRouter(
		cfg,
		log,
		auth.NewMiddleware(cfg, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewHealthHandler(db, warehouse, log),
		handler.NewAuthHandler(cfg.Auth.AdminRole),
		handler.NewQuoteHandler(a.leads, log),
		handler.NewQuoteSessionHandler(a.wizards, log),
		handler.NewLeadHandler(a.leads, log),
		handler.NewDashboardHandler(a.leads, log),
		handler.NewContentHandler(a.contents, log),
		handler.NewSiteImageHandler(a.images, cfg.Storage.MaxUploadSizeMB<<20, log),
		handler.NewCustomerHandler(a.customers, log),
		handler.NewJobHandler(a.jobs, log),
		handler.NewContactHandler(a.contacts, log),
		realtimeHandler,
	)
}

// sinks drops publishers that were not configured. Typed nil pointers must
// not reach events.NewMulti as non-nil interfaces.
func sinks(hub *events.Hub, natsPub *events.NATSPublisher, analytics *events.AnalyticsPublisher) []events.Publisher {
	var out []events.Publisher
	if hub != nil {
		out = append(out, hub)
	}
	if natsPub != nil {
		out = append(out, natsPub)
	}
	if analytics != nil {
		out = append(out, analytics)
	}
	return out
}

func startJobs(
	cfg *config.Config,
	leadService *service.LeadService,
	wizardService *service.WizardService,
	dwClient *datawarehouse.Client,
	log *zap.Logger,
) (*jobs.Scheduler, error) {
	if !cfg.Jobs.Enabled {
		log.Info("Background jobs disabled")
		return nil, nil
	}

	scheduler := jobs.NewScheduler(log.Named("jobs"))

	stale := jobs.NewStaleLeadsJob(leadService, cfg.Jobs.StaleLeadAfter(), log, jobTimeout)
	if err := scheduler.AddJob(jobs.StaleLeadsJobName, cfg.Jobs.StaleLeadSchedule, stale.Run); err != nil {
		return nil, err
	}

	sweep := jobs.NewSessionSweepJob(wizardService, log)
	if err := scheduler.AddJob(jobs.SessionSweepJobName, cfg.Jobs.SessionSweepSchedule, sweep.Run); err != nil {
		return nil, err
	}

	if dwClient.IsEnabled() {
		export := jobs.NewWarehouseExportJob(leadService, dwClient, log, jobTimeout)
		if err := scheduler.AddJob(jobs.WarehouseExportJobName, cfg.Jobs.ExportSchedule, export.Run); err != nil {
			return nil, err
		}
	} else {
		log.Info("Warehouse export job not scheduled, data warehouse unavailable")
	}

	scheduler.Start()
	return scheduler, nil
}
