// Package bootstrap assembles the service from configuration. Every entrypoint
// under cmd/ builds an App and uses the parts it needs.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/digital-wallet/pkg/bills"
	"github.com/chris/digital-wallet/pkg/config"
	"github.com/chris/digital-wallet/pkg/dashboard"
	"github.com/chris/digital-wallet/pkg/events"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/gateway/bkash"
	"github.com/chris/digital-wallet/pkg/gateway/sslcommerz"
	"github.com/chris/digital-wallet/pkg/handlers"
	billshandler "github.com/chris/digital-wallet/pkg/handlers/bills"
	dashboardhandler "github.com/chris/digital-wallet/pkg/handlers/dashboard"
	"github.com/chris/digital-wallet/pkg/handlers/gateways"
	instrumentshandler "github.com/chris/digital-wallet/pkg/handlers/instruments"
	"github.com/chris/digital-wallet/pkg/handlers/schedules"
	"github.com/chris/digital-wallet/pkg/handlers/transactions"
	wshandler "github.com/chris/digital-wallet/pkg/handlers/websockets"
	"github.com/chris/digital-wallet/pkg/instruments"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/notify/discord"
	"github.com/chris/digital-wallet/pkg/reconcile"
	"github.com/chris/digital-wallet/pkg/schedule"
	"github.com/chris/digital-wallet/pkg/scheduler"
	"github.com/chris/digital-wallet/pkg/storage"
	dydbstore "github.com/chris/digital-wallet/pkg/storage/dynamodb"
	"github.com/chris/digital-wallet/pkg/storage/sqlstore"
	"github.com/chris/digital-wallet/pkg/tokencache"
	"github.com/chris/digital-wallet/pkg/websockets"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds the wired components.
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	Store      storage.Storage
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry
	Gateways   *gateway.Registry
	Dispatcher *events.Dispatcher
	Ledger     *ledger.Ledger
	Reconciler *reconcile.Reconciler
	Schedules  *schedule.Service
	Hub        *websockets.Hub

	closers []func()
}

// New builds an App. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrGlobal(logger)
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New(cfg.MetricsNamespace),
		Registry: prometheus.NewRegistry(),
		Hub:      websockets.NewHub(logger),
	}
	if err := app.Metrics.Register(app.Registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)
	if m, ok := store.(storage.Migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	tokens, err := app.tokenCache()
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Gateways = NewGatewayRegistry(cfg, store, tokens, app.Metrics, logger)

	publisher, err := app.publisher(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Dispatcher = events.NewDispatcher(logger,
		events.NewAnalyticsListener(app.Metrics),
		events.NewNotificationListener(publisher),
		events.NewBillSettlementListener(store),
	)
	if cfg.DiscordBotToken != "" {
		notifier, err := discord.New(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Dispatcher.Subscribe(notifier)
	}

	app.Ledger = ledger.New(store, app.Gateways, ledger.Config{
		DefaultCurrency: cfg.DefaultCurrency,
		Metrics:         app.Metrics,
		Logger:          logger,
	})
	app.Reconciler = reconcile.New(store, app.Gateways, app.Dispatcher, app.Metrics, logger)
	app.Schedules = schedule.NewService(store, app.Ledger, app.Metrics, logger)

	return app, nil
}

// OpenStore opens the backend selected by cfg.StorageDriver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return dydbstore.New(client, dydbstore.TablesWithPrefix(cfg.DynamoDBTablePrefix)), func() {}, nil

	default:
		store, err := sqlstore.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}

// NewGatewayRegistry registers the adapters this build ships with. Both
// factories share one HTTP client so breaker state is per provider, not per call.
func NewGatewayRegistry(cfg *config.Config, entries storage.GatewayReader, tokens tokencache.Cache, m *metrics.Metrics, logger *logging.Logger) *gateway.Registry {
	clientCfg := gateway.DefaultClientConfig()
	clientCfg.Timeout = cfg.GatewayTimeout
	client := gateway.NewClient(clientCfg, m, logger)

	registry := gateway.NewRegistry(entries, logger)
	registry.Register(bkash.Code, func(entry *models.PaymentGateway) (gateway.Adapter, error) {
		return bkash.New(entry, client, tokens, cfg.CallbackURL(bkash.Code, ""), logger)
	})
	registry.Register(sslcommerz.Code, func(entry *models.PaymentGateway) (gateway.Adapter, error) {
		return sslcommerz.New(entry, client, sslcommerz.ReturnURLs{
			Success: cfg.CallbackURL(sslcommerz.Code, "success"),
			Fail:    cfg.CallbackURL(sslcommerz.Code, "fail"),
			Cancel:  cfg.CallbackURL(sslcommerz.Code, "cancel"),
		}, logger)
	})
	return registry
}

func (a *App) tokenCache() (tokencache.Cache, error) {
	if a.Config.RedisAddr == "" {
		return tokencache.NewMemory(), nil
	}
	cache, err := tokencache.NewRedis(tokencache.RedisConfig{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, cache.Close)
	return cache, nil
}

// publisher pushes through API Gateway when a websocket API is configured and
// to the in-process hub otherwise.
func (a *App) publisher(ctx context.Context) (websockets.Publisher, error) {
	if a.Config.WebsocketAPIEndpoint == "" {
		return a.Hub, nil
	}
	p, err := websockets.NewPublisher(ctx, a.Store, a.Config.WebsocketAPIEndpoint, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket publisher: %w", err)
	}
	return p, nil
}

// Queue returns the SQS queue due schedules are dispatched to.
func (a *App) Queue(ctx context.Context) (scheduler.Scheduler, error) {
	if a.Config.SQSQueueURL == "" {
		return nil, fmt.Errorf("SQS_QUEUE_URL environment variable not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), a.Config.SQSQueueURL), nil
}

// Router builds the HTTP API.
func (a *App) Router() http.Handler {
	return handlers.NewRouter(&handlers.ApiHandler{
		Transactions: transactions.NewTransactionsHandler(a.Store, a.Ledger, a.Reconciler, a.Config.StatusPageURL, a.Logger),
		Instruments:  instrumentshandler.NewInstrumentsHandler(instruments.New(a.Store, a.Logger), a.Logger),
		Bills:        billshandler.NewBillsHandler(bills.New(a.Store, a.Logger), a.Ledger, a.Logger),
		Schedules:    schedules.NewSchedulesHandler(a.Schedules, a.Logger),
		Gateways:     gateways.NewGatewaysHandler(a.Store, a.Logger),
		Dashboard:    dashboardhandler.NewDashboardHandler(dashboard.New(a.Store, a.Logger), a.Logger),
		Websocket:    wshandler.NewHandler(a.Store, a.Hub, a.Logger),
		Registry:     a.Registry,
		Logger:       a.Logger,
	})
}

// Close releases the store and caches in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if err := a.Logger.Sync(); err != nil {
		a.Logger.Debug("failed to sync logger", zap.Error(err))
	}
}
