// Package wkhtml adapts wkhtmltopdf as the report rendering collaborator.
package wkhtml

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"fournipay/internal/report"
)

// Renderer serializes a staged report to PDF via the wkhtmltopdf binary.
type Renderer struct {
	outputDir string
}

var _ report.Renderer = (*Renderer)(nil)

func New(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Render rasterizes the staging surface into outputDir/<OutputFileName>.
// Deadlines, if any, arrive through ctx; the renderer imposes none itself.
func (r *Renderer) Render(ctx context.Context, staging *report.Staging, opts report.Options) error {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return fmt.Errorf("init wkhtmltopdf: %w", err)
	}

	pdfg.PageSize.Set(pageSize(opts.PageFormat))
	pdfg.Orientation.Set(orientation(opts.Orientation))
	pdfg.MarginTop.Set(opts.MarginMM)
	pdfg.MarginBottom.Set(opts.MarginMM)
	pdfg.MarginLeft.Set(opts.MarginMM)
	pdfg.MarginRight.Set(opts.MarginMM)
	if opts.ImageQuality > 0 {
		pdfg.ImageQuality.Set(opts.ImageQuality)
	}

	pdfg.AddPage(wkhtmltopdf.NewPage(staging.IndexPath()))

	if err := pdfg.CreateContext(ctx); err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}

	out := filepath.Join(r.outputDir, opts.OutputFileName)
	if err := pdfg.WriteFile(out); err != nil {
		return fmt.Errorf("write pdf %s: %w", out, err)
	}
	return nil
}

func pageSize(format string) string {
	if format == "" {
		return wkhtmltopdf.PageSizeA4
	}
	return strings.ToUpper(format)
}

func orientation(o string) string {
	if strings.EqualFold(o, "landscape") {
		return wkhtmltopdf.OrientationLandscape
	}
	return wkhtmltopdf.OrientationPortrait
}
