package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fournipay/internal/amqp"
	"fournipay/internal/cli"
	apphttp "fournipay/internal/http"
	"fournipay/internal/license"
	"fournipay/internal/report"
	"fournipay/internal/report/wkhtml"
	ports "fournipay/internal/sheets"
	gsheet "fournipay/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitStore(ctx, logger, cfg)
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}()
	}

	// Export event notifications (optional).
	var notifier report.Notifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	if err := os.MkdirAll(cfg.ReportOutputDir, 0755); err != nil {
		logger.Error("Failed to create report output directory", "error", err, "dir", cfg.ReportOutputDir)
		os.Exit(1)
	}
	exporter := report.NewExporter(wkhtml.New(cfg.ReportOutputDir), notifier)

	// Spreadsheet ranking export (optional).
	var rankings ports.RankingWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Warn("Failed to initialize Google Sheets client, continuing without spreadsheet export", "error", err)
		} else {
			rankings = sheetsClient
			logger.Info("Initialized Google Sheets client", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:           result.Store,
		Exporter:        exporter,
		Rankings:        rankings,
		Licenses:        license.NewStaticChecker(cfg.LicensePlan),
		Organization:    cfg.OrganizationName,
		CacheMaxEntries: cfg.CacheMaxEntries,
		CacheTTL:        time.Duration(cfg.CacheTTLSeconds) * time.Second,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fournipay server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"plan", cfg.LicensePlan)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
