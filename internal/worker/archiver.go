// Package worker consumes export events and archives finished reports.
package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fournipay/internal/amqp"
)

// Archiver moves completed report files from the export output
// directory into a dated archive directory. Failed exports are only
// logged; there is no file to move.
type Archiver struct {
	outputDir  string
	archiveDir string
}

func NewArchiver(outputDir, archiveDir string) *Archiver {
	return &Archiver{outputDir: outputDir, archiveDir: archiveDir}
}

// Run consumes export events until the context is cancelled.
func (a *Archiver) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeExportEvents(ctx, a.Handle)
}

// Handle processes one export event. Completed reports are archived
// under <archiveDir>/<date>/<file>; a missing source file is an error
// so the delivery is retried.
func (a *Archiver) Handle(event *amqp.ExportEvent) error {
	switch event.Kind {
	case amqp.EventExportCompleted:
		return a.archive(event)
	case amqp.EventExportFailed:
		slog.Warn("Report export failed upstream",
			"file", event.FileName,
			"error", event.Error)
		return nil
	default:
		slog.Warn("Ignoring unknown export event", "kind", event.Kind)
		return nil
	}
}

func (a *Archiver) archive(event *amqp.ExportEvent) error {
	src := filepath.Join(a.outputDir, event.FileName)
	dstDir := filepath.Join(a.archiveDir, event.Timestamp.Format("2006-01-02"))
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	dst := filepath.Join(dstDir, event.FileName)

	if err := moveFile(src, dst); err != nil {
		return fmt.Errorf("archive report %s: %w", event.FileName, err)
	}

	slog.Info("Report archived", "file", event.FileName, "archive", dst)
	return nil
}

// moveFile renames when possible and falls back to copy-and-delete for
// cross-device moves.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
