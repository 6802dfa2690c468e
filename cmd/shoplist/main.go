package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/api"
	"github.com/Kerhoff/shoplist/internal/config"
	"github.com/Kerhoff/shoplist/internal/handlers"
	"github.com/Kerhoff/shoplist/internal/liststate"
	"github.com/Kerhoff/shoplist/internal/metrics"
	"github.com/Kerhoff/shoplist/internal/repository/sqlrepo"
	"github.com/Kerhoff/shoplist/internal/telegram"
	"github.com/Kerhoff/shoplist/internal/usecase/catalog"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
	"github.com/Kerhoff/shoplist/pkg/logger"
)

const (
	webhookPath     = "/telegram/webhook"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting shoplist...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	dialect, err := sqlrepo.ParseDialect(db.Driver)
	if err != nil {
		l.Fatalf("Unsupported database driver: %v", err)
	}

	m := metrics.New()

	// Repositories and use cases
	listRepo := sqlrepo.NewListRepository(db.DB, dialect, sqlrepo.WithMetrics(m))
	productRepo := sqlrepo.NewProductRepository(db.DB, dialect, sqlrepo.WithMetrics(m))

	useCases := lists.New(listRepo, l, m)
	products := catalog.New(productRepo, l, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	apiServer := api.NewServer(useCases, products, db.DB, logger.ForComponent(l, "api"))

	if cfg.BotEnabled() {
		startBot(ctx, cfg, l, m, useCases, products, apiServer)
	} else {
		l.Warn("TELEGRAM_TOKEN is not set, bot disabled")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	for name, srv := range map[string]*http.Server{"HTTP": httpServer, "Metrics": metricsServer} {
		name, srv := name, srv
		go func() {
			l.Infof("%s server listening on %s", name, srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("%s server error: %v", name, err)
				cancel()
			}
		}()
	}

	l.Info("shoplist started successfully")

	<-ctx.Done()

	if err := shutdown(l, db, httpServer, metricsServer); err != nil {
		l.Errorf("Shutdown finished with errors: %v", err)
		os.Exit(1)
	}
	l.Info("shoplist stopped")
}

// startBot wires the Telegram commands and starts receiving updates, by
// webhook when WEBHOOK_URL is set and by long polling otherwise.
func startBot(ctx context.Context, cfg *config.Config, l *logrus.Logger, m *metrics.Metrics,
	useCases *lists.UseCases, products *catalog.Service, apiServer *api.Server) {
	botLogger := logger.ForComponent(l, "telegram")

	bot, err := telegram.NewBot(cfg.TelegramToken, botLogger)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	svc := liststate.NewService(useCases)
	stateLogger := logger.ForComponent(l, "liststate")
	registry, err := liststate.NewRegistry(cfg.StateCacheSize, func(session string) *liststate.Store {
		return liststate.NewStore(svc, stateLogger.WithField("session", session), m)
	})
	if err != nil {
		l.Fatalf("Failed to create state registry: %v", err)
	}

	handlers.New(registry, products, logger.ForComponent(l, "handlers")).Register(bot)

	if cfg.WebhookURL != "" {
		apiServer.HandlePost(webhookPath, bot.WebhookHandler(ctx))
		if err := bot.SetWebhook(cfg.WebhookURL); err != nil {
			l.Fatalf("Failed to set webhook: %v", err)
		}
		return
	}

	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()
}

func shutdown(l *logrus.Logger, db *config.Database, servers ...*http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result *multierror.Error
	for _, srv := range servers {
		l.Infof("Shutting down server on %s...", srv.Addr)
		if err := srv.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := db.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
