package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/kyro-pay/gateway/internal/blockchain"
	"github.com/kyro-pay/gateway/internal/config"
	"github.com/kyro-pay/gateway/internal/gateway"
	"github.com/kyro-pay/gateway/internal/http_api"
	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/notificator"
	"github.com/kyro-pay/gateway/internal/payment"
	"github.com/kyro-pay/gateway/internal/repository"
	"github.com/kyro-pay/gateway/internal/tokenmeta"
	"github.com/kyro-pay/gateway/internal/transfer"
	"github.com/kyro-pay/gateway/internal/verification"
	"github.com/kyro-pay/gateway/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "kyro",
		Usage: "Kyro is a crypto payment gateway verifying payments on EVM chains",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database-driver", Usage: "Database driver (postgres|sqlite)"},
			&cli.StringFlag{Name: "sqlite-path", Usage: "SQLite database file"},
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.IntFlag{Name: "api-port", Usage: "HTTP API port"},
			&cli.StringFlag{Name: "expiry-policy", Usage: "Expiry policy (none|read|sweep)"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level (debug|info|warn|error)"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the background jobs",
				Action: serve,
			},
			{
				Name:  "seed",
				Usage: "Upsert networks, tokens and wallets from a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Seed file", Required: true},
				},
				Action: seed,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the environment and applies flag overrides
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override with flags if set
	if c.IsSet("database-driver") {
		cfg.DatabaseDriver = c.String("database-driver")
	}
	if c.IsSet("sqlite-path") {
		cfg.SQLitePath = c.String("sqlite-path")
	}
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("expiry-policy") {
		cfg.ExpiryPolicy = c.String("expiry-policy")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDB(cfg *config.Config, log *logger.Logger) (*repository.DB, error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		return repository.NewSQLiteDB(cfg.SQLitePath, log)
	}
	return repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize metrics
	var recorder metrics.Recorder = metrics.NewNoopRecorder()
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheusRecorder()
		recorder = prom
	}

	// Initialize database
	db, err := openDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize blockchain clients
	pool := blockchain.NewPool(blockchain.ClientOptions{
		Timeout:   cfg.RPCTimeout,
		RateLimit: rate.Limit(cfg.RPCRateLimit),
		RateBurst: cfg.RPCRateBurst,
	}, log, recorder)
	defer pool.Close()

	resolver := tokenmeta.NewResolver(cfg.DecimalsCacheSize, cfg.DecimalsCacheTTL, cfg.DefaultTokenDecimals, log)
	verifier := verification.NewVerifier(db, pool, resolver, verification.Options{
		ExpiryPolicy: models.ExpiryPolicy(cfg.ExpiryPolicy),
		Selection:    transfer.Selection(cfg.TransferLogSelection),
	}, log, recorder)
	machine := payment.NewStateMachine(db, models.ExpiryPolicy(cfg.ExpiryPolicy), log)

	// Initialize notificator
	notif, err := newNotificator(ctx, cfg, log, recorder)
	if err != nil {
		return err
	}

	app := gateway.NewGateway(db, verifier, machine, notif, gateway.Options{
		ExpiryPolicy:  models.ExpiryPolicy(cfg.ExpiryPolicy),
		SweepInterval: cfg.ExpirySweepInterval,
		InstanceID:    cfg.InstanceID,
	}, log, recorder)

	var metricsHandler http.Handler
	if prom != nil {
		metricsHandler = prom.Handler()
	}
	apiServer := http_api.NewHTTPServer(app, cfg.APIPort, metricsHandler, log)

	app.Start()
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err = <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down HTTP server", "error", err)
	}
	app.Stop()
	return err
}

func newNotificator(ctx context.Context, cfg *config.Config, log *logger.Logger, recorder metrics.Recorder) (*notificator.Notificator, error) {
	webhook := notificator.NewWebhookNotificator(log, cfg.WebhookSecret, cfg.WebhookTimeout)

	var email *notificator.EmailNotificator
	if cfg.EmailEnabled() {
		email = notificator.NewEmailNotificator(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
	}

	var telegram *notificator.TelegramNotificator
	if cfg.TelegramEnabled() {
		var err error
		telegram, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, strconv.FormatInt(cfg.TelegramChatID, 10))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram notificator: %w", err)
		}
		go telegram.Start(ctx)
	}

	if cfg.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET is empty, webhooks are sent unsigned")
	}
	return notificator.NewNotificator(log, recorder, webhook, telegram, email), nil
}
