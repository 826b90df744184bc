package report

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier publishes export lifecycle events. A nil Notifier disables
// notifications without changing export behavior.
type Notifier interface {
	PublishExportCompleted(ctx context.Context, fileName string) error
	PublishExportFailed(ctx context.Context, fileName string, cause error) error
}

// Exporter drives the single asynchronous boundary of the analytics
// pipeline: it stages the fully rendered report and waits for the
// rendering collaborator to finish or fail.
type Exporter struct {
	renderer Renderer
	notifier Notifier
}

func NewExporter(renderer Renderer, notifier Notifier) *Exporter {
	return &Exporter{renderer: renderer, notifier: notifier}
}

// Export renders the document, stages it and hands it to the rendering
// collaborator. The staging surface is released on all exit paths,
// including panics; no partial document is left behind on failure.
func (e *Exporter) Export(ctx context.Context, d Data, opts Options) error {
	html, err := RenderHTML(d)
	if err != nil {
		return err
	}

	staging, err := NewStaging(html)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := staging.Release(); rerr != nil {
			slog.WarnContext(ctx, "Failed to release staging surface", "error", rerr)
		}
	}()

	if err := e.renderer.Render(ctx, staging, opts); err != nil {
		e.notifyFailed(ctx, opts.OutputFileName, err)
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	e.notifyCompleted(ctx, opts.OutputFileName)
	slog.InfoContext(ctx, "Report exported",
		"file", opts.OutputFileName,
		"suppliers", d.SupplierCount,
		"payments", d.Summary.Count)
	return nil
}

func (e *Exporter) notifyCompleted(ctx context.Context, fileName string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.PublishExportCompleted(ctx, fileName); err != nil {
		slog.WarnContext(ctx, "Failed to publish export completed event", "error", err)
	}
}

func (e *Exporter) notifyFailed(ctx context.Context, fileName string, cause error) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.PublishExportFailed(ctx, fileName, cause); err != nil {
		slog.WarnContext(ctx, "Failed to publish export failed event", "error", err)
	}
}
