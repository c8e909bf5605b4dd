package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pharmadesk/m/internal/api"
	"pharmadesk/m/internal/config"
	"pharmadesk/m/internal/database"
	"pharmadesk/m/internal/flash"
	"pharmadesk/m/internal/logging"
	"pharmadesk/m/internal/lookup"
	"pharmadesk/m/internal/migrations"
	"pharmadesk/m/internal/notify"
	"pharmadesk/m/internal/ocr"
	"pharmadesk/m/internal/scan"
	"pharmadesk/m/internal/seed"
	"pharmadesk/m/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	if cfg.SeedStockCSV != "" {
		if _, err := seed.LoadStock(db, cfg.SeedStockCSV, logger); err != nil {
			logger.Warn("stock seed skipped", zap.Error(err))
		}
	}

	handler := api.New(api.Deps{
		Stock:     store.NewStockStore(db),
		Customers: store.NewCustomerStore(db),
		Lookup:    lookup.New(cfg.OpenFDAURL, nil),
		Scanner:   scan.NewService(cfg.UploadDir, ocr.NewTesseract(cfg.OCRLanguage), store.NewInvoiceStore(db), logger),
		Notifier:  notify.NewService(cfg.Mail.Operator, notify.NewSMTPTransport(cfg.Mail), logger),
		Notices:   flash.NewStore(cfg.Secret),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("pharmacy server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down, waiting for pending requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
