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

	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/auth"
	"github.com/KaduPegasus/Frango-supremo/internal/catalog"
	"github.com/KaduPegasus/Frango-supremo/internal/config"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/payment"
	"github.com/KaduPegasus/Frango-supremo/internal/router"
	"github.com/KaduPegasus/Frango-supremo/internal/scheduler"
	"github.com/KaduPegasus/Frango-supremo/internal/seed"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
	"github.com/KaduPegasus/Frango-supremo/internal/ws"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	port, closeStorage, err := storage.Open(ctx, storageOptions(cfg), log)
	if err != nil {
		return err
	}
	defer closeStorage()

	docs := storage.NewDocuments(port, cfg.StorageNamespace, log)
	defaults := seed.Defaults()

	hub := ws.NewHub()
	go hub.Run(ctx)

	publishers := events.Multi{events.NewHubPublisher(hub)}
	if cfg.AMQPURL != "" {
		conn, ch, err := events.DialAMQP(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		amqpPub, err := events.NewAMQPPublisher(ch)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
		log.Info("publishing order events to amqp")
	}

	passphrase, err := auth.NewPassphrase(cfg.AdminPassphrase, cfg.AdminPassphraseHash)
	if err != nil {
		return fmt.Errorf("admin passphrase: %w", err)
	}

	gateway := payment.NewGateway("payment",
		payment.NewSimulatedCard(cfg.CardPaymentDelay),
		payment.NewSimulatedPix(cfg.PixConfirmDelay),
		log,
	)

	catalogStore := catalog.NewStore(ctx, docs, defaults.Products, defaults.Combos)
	info := service.NewBusinessInfoStore(ctx, docs, defaults.BusinessInfo)
	history := service.NewHistory(ctx, docs)
	sessions := service.NewSessions()
	orders := service.NewOrderService(history, sessions, publishers, log)
	carts := service.NewCartService(sessions, catalogStore, history, info)
	checkout := service.NewCheckoutService(sessions, orders, gateway, info, log)
	courier := service.NewCourierService(history, orders)

	sweeper, err := scheduler.Start(cfg.SweepInterval, log, scheduler.Sweeps(sessions, courier, scheduler.TTLs{
		PendingOrder: cfg.PendingOrderTTL,
		Session:      cfg.SessionIdleTTL,
		Dashboard:    cfg.SessionIdleTTL,
	})...)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sweeper.Shutdown()

	r, err := router.New(cfg, router.Services{
		Catalog:    catalogStore,
		Carts:      carts,
		Checkout:   checkout,
		Orders:     orders,
		Courier:    courier,
		Business:   info,
		Feedback:   service.NewFeedbackStore(ctx, docs),
		Reports:    service.NewReports(history),
		Passphrase: passphrase,
		Gateway:    gateway,
		Hub:        hub,
	}, log)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.StorageBackend}).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func storageOptions(cfg *config.Config) storage.OpenOptions {
	return storage.OpenOptions{
		Backend: cfg.StorageBackend,
		DataDir: cfg.DataDir,
		Redis: storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		DatabaseURL: cfg.DatabaseURL,
	}
}
