// Command report-export renders the supplier report to PDF once and
// exits. Useful for scheduled exports outside the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fournipay/internal/amqp"
	"fournipay/internal/analytics"
	"fournipay/internal/cli"
	"fournipay/internal/report"
	"fournipay/internal/report/wkhtml"
	gsheet "fournipay/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	var (
		periodFlag = flag.String("period", "", "analysis period: week, month, quarter or year (default: all time)")
		outFlag    = flag.String("out", "", "output PDF file name (default: rapport_fournisseurs_<date>.pdf)")
		sheetsFlag = flag.Bool("sheets", false, "also write the supplier ranking to the configured spreadsheet")
	)
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := cli.InitStore(ctx, logger, cfg)
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	now := time.Now()
	criteria := analytics.Criteria{}
	if *periodFlag != "" {
		window, err := analytics.ResolvePeriod(analytics.Period(*periodFlag), now)
		if err != nil {
			logger.Error("Invalid period", "error", err, "period", *periodFlag)
			os.Exit(1)
		}
		criteria.Window = &window
	}

	payments, err := result.Store.Payments(ctx)
	if err != nil {
		logger.Error("Failed to load payments", "error", err)
		os.Exit(1)
	}
	suppliers, err := result.Store.Suppliers(ctx)
	if err != nil {
		logger.Error("Failed to load suppliers", "error", err)
		os.Exit(1)
	}

	view := analytics.Filter(payments, criteria)
	groups := analytics.GroupBySupplier(view, suppliers)

	fileName := *outFlag
	if fileName == "" {
		fileName = fmt.Sprintf("rapport_fournisseurs_%s.pdf", now.Format("2006-01-02"))
	}

	var notifier report.Notifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without export events", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
		}
	}

	if err := os.MkdirAll(cfg.ReportOutputDir, 0755); err != nil {
		logger.Error("Failed to create report output directory", "error", err, "dir", cfg.ReportOutputDir)
		os.Exit(1)
	}

	exporter := report.NewExporter(wkhtml.New(cfg.ReportOutputDir), notifier)
	meta := report.Meta{Organization: cfg.OrganizationName, GeneratedAt: now}
	data := report.Compose(meta, suppliers, view, groups)

	if err := exporter.Export(ctx, data, report.DefaultOptions(fileName)); err != nil {
		logger.Error("Report export failed", "error", err, "file", fileName)
		os.Exit(1)
	}
	logger.Info("Report exported",
		"file", fileName,
		"dir", cfg.ReportOutputDir,
		"suppliers", data.SupplierCount,
		"payments", data.Summary.Count)

	if *sheetsFlag {
		if cfg.GoogleSpreadsheetID == "" {
			logger.Error("Spreadsheet export requested but GOOGLE_SPREADSHEET_ID is not set")
			os.Exit(1)
		}
		sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		ranked := analytics.Rank(groups, 10)
		ref, err := sheetsClient.WriteRanking(ctx, now, ranked)
		if err != nil {
			logger.Error("Spreadsheet export failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Ranking exported", "sheets_ref", ref, "rows", len(ranked))
	}
}
