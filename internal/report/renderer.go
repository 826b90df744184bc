package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrRenderFailed wraps failures reported by the rendering collaborator.
// By the time it surfaces, the staging surface has already been released.
var ErrRenderFailed = errors.New("report rendering failed")

// Options is the configuration record handed to the rendering collaborator
// alongside the staging surface.
type Options struct {
	MarginMM       uint
	PageFormat     string
	Orientation    string
	ImageQuality   uint
	OutputFileName string
}

// DefaultOptions mirrors the export settings of the dashboard's PDF button.
func DefaultOptions(outputFileName string) Options {
	return Options{
		MarginMM:       10,
		PageFormat:     "A4",
		Orientation:    "portrait",
		ImageQuality:   98,
		OutputFileName: outputFileName,
	}
}

// Renderer serializes a staging surface to a portable document. The core
// treats it as an opaque sink: no retries, no deadline of its own.
type Renderer interface {
	Render(ctx context.Context, staging *Staging, opts Options) error
}

// Staging is a scoped, detached surface holding the fully rendered report
// markup. It lives in a private temp directory and must be released on
// every exit path, success or failure.
type Staging struct {
	dir   string
	index string
}

// NewStaging writes the materialized markup to a fresh staging surface.
func NewStaging(html string) (*Staging, error) {
	dir, err := os.MkdirTemp("", "fournipay-report-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	index := filepath.Join(dir, "index.html")
	if err := os.WriteFile(index, []byte(html), 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("write staging document: %w", err)
	}
	return &Staging{dir: dir, index: index}, nil
}

// IndexPath returns the path of the staged document.
func (s *Staging) IndexPath() string {
	return s.index
}

// Release removes the staging surface. Safe to call more than once.
func (s *Staging) Release() error {
	if s == nil || s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	return os.RemoveAll(dir)
}
