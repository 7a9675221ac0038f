package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentra/hiring-management/internal"
	"github.com/talentra/hiring-management/internal/accesscontrol"
	acpostgres "github.com/talentra/hiring-management/internal/accesscontrol/postgres"
	"github.com/talentra/hiring-management/internal/ai"
	"github.com/talentra/hiring-management/internal/auth"
	authpostgres "github.com/talentra/hiring-management/internal/auth/postgres"
	"github.com/talentra/hiring-management/internal/billing"
	billingpostgres "github.com/talentra/hiring-management/internal/billing/postgres"
	"github.com/talentra/hiring-management/internal/billinggateway"
	"github.com/talentra/hiring-management/internal/candidate"
	candidatepostgres "github.com/talentra/hiring-management/internal/candidate/postgres"
	"github.com/talentra/hiring-management/internal/contract"
	contractpostgres "github.com/talentra/hiring-management/internal/contract/postgres"
	"github.com/talentra/hiring-management/internal/core/events"
	"github.com/talentra/hiring-management/internal/interview"
	interviewpostgres "github.com/talentra/hiring-management/internal/interview/postgres"
	"github.com/talentra/hiring-management/internal/job"
	jobpostgres "github.com/talentra/hiring-management/internal/job/postgres"
	"github.com/talentra/hiring-management/internal/mailer"
	"github.com/talentra/hiring-management/internal/message"
	messagepostgres "github.com/talentra/hiring-management/internal/message/postgres"
	"github.com/talentra/hiring-management/internal/transport"
	"github.com/talentra/hiring-management/internal/transport/rest"
	"github.com/talentra/hiring-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Resolver *accesscontrol.Resolver
	Handlers rest.Handlers
	Gateway  *billinggateway.Client
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Resolver, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if deps.Gateway != nil {
			deps.Gateway.Shutdown()
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Share the pooled connection between sqlx (health checks, migrations)
	// and gorm (repositories).
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewBus(log)

	// Access control
	acStore := acpostgres.NewStore(gormDB)
	resolver := accesscontrol.NewResolver(acStore, acStore, acStore, log)
	grantService := accesscontrol.NewGrantService(resolver, acStore, acStore, acStore, log)

	// Auth
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpostgres.NewRepository(gormDB), tokenGen)

	// Outbound clients
	var mail mailer.Mailer
	if config.Mailer.APIKey != "" {
		mail = mailer.NewClient(mailer.Config{
			APIURL:      config.Mailer.APIURL,
			APIKey:      config.Mailer.APIKey,
			FromAddress: config.Mailer.FromEmail,
		}, log)
	} else {
		mail = mailer.NewNoop(log)
	}

	var evaluator ai.Evaluator
	if config.AI.Enabled && config.AI.APIKey != "" {
		client, err := ai.NewClient(config.AI.APIKey, config.AI.Model, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize screening client: %w", err)
		}
		evaluator = client
	}

	gateway := billinggateway.NewClient(billinggateway.Config{
		APIURL:         config.Billing.ProviderAPIURL,
		APIKey:         config.Billing.APIKey,
		CallbackURL:    config.Server.BaseURL + "/api/v1/billing/callback",
		CallbackSecret: config.Billing.WebhookSecret,
		RequestTimeout: 15 * time.Second,
		MaxWorkers:     config.Billing.MaxWorkers,
	}, log)

	// Domain services
	jobService := job.NewService(jobpostgres.NewJobRepository(gormDB), log)
	candidateService := candidate.NewService(
		candidatepostgres.NewCandidateRepository(gormDB),
		jobService, evaluator, mail, eventBus, log,
	)
	interviewService := interview.NewService(interviewpostgres.NewInterviewRepository(gormDB), log)
	contractService := contract.NewService(
		contractpostgres.NewContractRepository(gormDB),
		candidateService, mail, eventBus, log,
	)
	messageService := message.NewService(messagepostgres.NewMessageRepository(gormDB), log)
	billingService := billing.NewService(billingpostgres.NewSubscriptionRepository(gormDB), gateway, eventBus, log)

	registerEventHandlers(eventBus, log)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(authService),
		Grants:      accesscontrol.NewHandler(grantService),
		Jobs:        job.NewHandler(jobService),
		Candidates:  candidate.NewHandler(candidateService),
		Interviews:  interview.NewHandler(interviewService),
		Contracts:   contract.NewHandler(contractService),
		Messages:    message.NewHandler(messageService),
		Billing:     billing.NewHandler(billingService),
		BillingHook: billing.NewWebhookHandler(transport.NewBaseHandler(log), billingService, gateway, log),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Resolver: resolver,
		Handlers: handlers,
		Gateway:  gateway,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
