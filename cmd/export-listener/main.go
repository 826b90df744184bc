// Command export-listener consumes report export events and archives
// completed reports.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fournipay/internal/amqp"
	"fournipay/internal/cli"
	"fournipay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export listener")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiveDir := os.Getenv("REPORT_ARCHIVE_DIR")
	if archiveDir == "" {
		archiveDir = "./reports/archive"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting export listener",
		"queue", cfg.AMQPQueue,
		"output_dir", cfg.ReportOutputDir,
		"archive_dir", archiveDir)

	archiver := worker.NewArchiver(cfg.ReportOutputDir, archiveDir)
	if err := archiver.Run(ctx, amqpClient); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Listener stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Export listener stopped")
}
