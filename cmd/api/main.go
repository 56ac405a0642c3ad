package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novashop/internal/auth"
	"novashop/internal/cache"
	"novashop/internal/config"
	"novashop/internal/db"
	internalhttp "novashop/internal/http"
	"novashop/internal/notify"
	"novashop/internal/orderid"
	"novashop/internal/services"
	"novashop/internal/store"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	var productCache *cache.ProductCache
	if cfg.Redis.Addr != "" {
		productCache, err = cache.NewProductCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second,
			logger,
		)
		if err != nil {
			logger.Warn("redis unavailable, listings uncached", zap.Error(err))
			productCache = nil
		} else {
			defer productCache.Close()
		}
	}

	hub := notify.NewHub(logger)
	defer hub.Close()

	sinks := []notify.Sink{notify.LogSink{Logger: logger}, hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := notify.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Fatal("kafka connect failed", zap.Error(err))
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	notifier := notify.NewFanout(logger, sinks...)

	catalogStore := store.NewCatalogStore(pool)
	orderStore := store.NewOrderStore(pool)
	statsStore := store.NewStatsStore(pool)
	paymentStore := store.NewPaymentStore(pool)
	blacklistStore := store.NewBlacklistStore(pool)

	orderSvc := &services.OrderService{
		Ledger:      orderStore,
		Products:    catalogStore,
		Blacklist:   blacklistStore,
		Notifier:    notifier,
		Cache:       productCache,
		IDs:         orderid.New(cfg.Orders.IDPrefix),
		MinQuantity: cfg.Orders.MinQuantity,
		MaxQuantity: cfg.Orders.MaxQuantity,
		Logger:      logger,
	}
	catalogSvc := &services.CatalogService{
		Repo:   catalogStore,
		Cache:  productCache,
		Logger: logger,
	}
	statsSvc := services.StatsService{Source: statsStore}
	paymentsSvc := &services.PaymentsService{
		Repo:     paymentStore,
		Fallback: cfg.FallbackAddress,
	}
	authorizer := auth.NewRoleAuthorizer(cfg.Roles.StaffIDs, cfg.Roles.OwnerIDs)

	h := &internalhttp.Handler{
		Orders:    orderSvc,
		Catalog:   catalogSvc,
		Stats:     statsSvc,
		Payments:  paymentsSvc,
		Blacklist: blacklistStore,
		Hub:       hub,
		Logger:    logger,
	}
	srv := internalhttp.NewServer(h, authorizer)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
