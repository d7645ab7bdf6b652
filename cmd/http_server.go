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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/enviohq/envio-backend/internal"
	"github.com/enviohq/envio-backend/internal/auth"
	authpg "github.com/enviohq/envio-backend/internal/auth/postgres"
	"github.com/enviohq/envio-backend/internal/catalog"
	catalogpg "github.com/enviohq/envio-backend/internal/catalog/postgres"
	"github.com/enviohq/envio-backend/internal/collection"
	collectionpg "github.com/enviohq/envio-backend/internal/collection/postgres"
	"github.com/enviohq/envio-backend/internal/coordinator"
	"github.com/enviohq/envio-backend/internal/core/events"
	"github.com/enviohq/envio-backend/internal/dashboard"
	"github.com/enviohq/envio-backend/internal/document"
	documentpg "github.com/enviohq/envio-backend/internal/document/postgres"
	"github.com/enviohq/envio-backend/internal/invoice"
	invoicepg "github.com/enviohq/envio-backend/internal/invoice/postgres"
	"github.com/enviohq/envio-backend/internal/mailer"
	"github.com/enviohq/envio-backend/internal/manifest"
	manifestpg "github.com/enviohq/envio-backend/internal/manifest/postgres"
	"github.com/enviohq/envio-backend/internal/reward"
	"github.com/enviohq/envio-backend/internal/storage"
	"github.com/enviohq/envio-backend/internal/subscription"
	subscriptionpg "github.com/enviohq/envio-backend/internal/subscription/postgres"
	"github.com/enviohq/envio-backend/internal/transport/rest"
	"github.com/enviohq/envio-backend/internal/user"
	userpg "github.com/enviohq/envio-backend/internal/user/postgres"
	"github.com/enviohq/envio-backend/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	gormDB, err := initGormDB(sqlxDB)
	if err != nil {
		log.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	handlers, err := buildHandlers(cfg, gormDB, sqlxDB, log)
	if err != nil {
		log.Error("failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(router, sqlxDB.DB, handlers, cfg.Server.AllowedOrigins, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if err := sqlxDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

// buildHandlers wires repositories, the cross-entity coordinator and domain
// services into the handler set the router mounts.
func buildHandlers(cfg *internal.Config, gormDB *gorm.DB, sqlxDB *sqlx.DB, log *slog.Logger) (rest.Handlers, error) {
	authRepo := authpg.NewAuthRepository(gormDB)
	userRepo := userpg.NewUserRepository(gormDB)
	layananRepo := catalogpg.NewLayananRepository(gormDB)
	transaksiRepo := subscriptionpg.NewTransaksiRepository(gormDB)
	invoiceRepo := invoicepg.NewInvoiceRepository(gormDB)
	pengangkutanRepo := collectionpg.NewPengangkutanRepository(gormDB)
	manifestRepo := manifestpg.NewManifestRepository(gormDB)
	dokumenRepo := documentpg.NewDokumenRepository(gormDB)

	coord := coordinator.New(transaksiRepo, invoiceRepo, pengangkutanRepo, manifestRepo, dokumenRepo, log)

	bus := events.NewEventBus(log)
	mail := mailer.NewSMTPMailer(cfg.Mail, log)
	notifier := mailer.NewCompletionNotifier(mail, userRepo, log)
	bus.Subscribe(events.EventTypeSubscriptionCompleted, notifier.HandleSubscriptionCompleted)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration)

	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost)
	userService := user.NewService(userRepo, coord, log)
	catalogService := catalog.NewService(layananRepo, coord, log)
	rewardService := reward.NewService(userRepo, bus, log)
	subscriptionService := subscription.NewService(transaksiRepo, catalogService, coord, rewardService, userRepo, log)
	invoiceService := invoice.NewService(invoiceRepo, coord, log)
	collectionService := collection.NewService(pengangkutanRepo, log)
	manifestService := manifest.NewService(manifestRepo, coord, log)
	documentService := document.NewService(dokumenRepo, log)
	dashboardService := dashboard.NewService(sqlxDB, log)

	fileStore, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		return rest.Handlers{}, err
	}

	return rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Catalog:      catalog.NewHandler(catalogService),
		Subscription: subscription.NewHandler(subscriptionService),
		Invoice:      invoice.NewHandler(invoiceService),
		Collection:   collection.NewHandler(collectionService),
		Manifest:     manifest.NewHandler(manifestService),
		Document:     document.NewHandler(documentService),
		Dashboard:    dashboard.NewHandler(dashboardService),
		Upload:       storage.NewHandler(fileStore),
	}, nil
}

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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGormDB layers the ORM on the already-open pgx connection pool so both
// access paths share one pool.
func initGormDB(sqlxDB *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
}
