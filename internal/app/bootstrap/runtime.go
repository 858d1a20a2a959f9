package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/x67digital/marketplace/internal/adapters/cache"
	eventadapter "github.com/x67digital/marketplace/internal/adapters/events"
	"github.com/x67digital/marketplace/internal/adapters/gateway"
	httpadapter "github.com/x67digital/marketplace/internal/adapters/http"
	"github.com/x67digital/marketplace/internal/adapters/postgres"
	"github.com/x67digital/marketplace/internal/adapters/security"
	"github.com/x67digital/marketplace/internal/application"
	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	dispatcher *eventadapter.Dispatcher
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	var cacheStore ports.Cache
	var closers []io.Closer
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			_ = sqlDB.Close()
			return nil, redisErr
		}
		cacheStore = cache.NewRedisCache(redisClient)
		closers = append(closers, redisClient)
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			"marketplace.ad.published":           cfg.KafkaTopicAdEvents,
			"marketplace.ad.updated":             cfg.KafkaTopicAdEvents,
			"marketplace.ad.deleted":             cfg.KafkaTopicAdEvents,
			"marketplace.ad.moderated":           cfg.KafkaTopicAdEvents,
			"marketplace.payment.completed":      cfg.KafkaTopicPayments,
			"marketplace.review.created":         cfg.KafkaTopicAdEvents,
			"marketplace.notification.requested": cfg.KafkaTopicNotification,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}
	}

	dispatcher := eventadapter.NewDispatcher(logger, publisher, cfg.NotifyQueueSize)

	vivaClient := gateway.NewVivaClient(gateway.Config{
		AccountsURL:  cfg.VivaAccountsURL,
		APIURL:       cfg.VivaAPIURL,
		CheckoutURL:  cfg.VivaCheckoutURL,
		ClientID:     cfg.VivaClientID,
		ClientSecret: cfg.VivaClientSecret,
		SourceCode:   cfg.VivaSourceCode,
	}, logger)

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName: cfg.ServiceID,
			Categories:  cfg.Categories,
			Cities:      cfg.Cities,
			PriceTable: map[domain.PaymentKind]int64{
				domain.PaymentKindPostAd:  cfg.PricePostAdMinor,
				domain.PaymentKindBoost:   cfg.PriceBoostMinor,
				domain.PaymentKindPromote: cfg.PricePromoteMinor,
			},
			TopUpCooldown:         cfg.TopUpCooldown,
			TopUpCooldownReferral: cfg.TopUpCooldownReferral,
			BoostDuration:         cfg.BoostDuration,
			PromoteDuration:       cfg.PromoteDuration,
			OperatorRecipient:     cfg.OperatorRecipient,
			PromotedCacheTTL:      cfg.PromotedCacheTTL,
		},
		Ads:         repos.Ads,
		Payments:    repos.Payments,
		Reviews:     repos.Reviews,
		Favorites:   repos.Favorites,
		SellerStats: repos.SellerStats,
		Outbox:      repos.Outbox,
		Gateway:     vivaClient,
		Notifier:    dispatcher,
		Cache:       cacheStore,
		Logger:      logger,
	})

	verifier, err := security.NewTokenVerifier(cfg.JWTSecret)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	handler := httpadapter.NewHandler(service, verifier, cfg.WebhookKey, logger)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	outbox := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		dispatcher: dispatcher,
		outbox:     outbox,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		_ = r.dispatcher.Run(ctx)
	}()

	r.logger.InfoContext(ctx, "api listening", "addr", r.httpServer.Addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
