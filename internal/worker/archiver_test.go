package worker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fournipay/internal/amqp"
)

func TestHandleCompletedArchivesFile(t *testing.T) {
	outDir := t.TempDir()
	archiveDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(outDir, "rapport.pdf"), []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewArchiver(outDir, archiveDir)
	event := &amqp.ExportEvent{
		Kind:      amqp.EventExportCompleted,
		FileName:  "rapport.pdf",
		Timestamp: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
	}

	if err := a.Handle(event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	dst := filepath.Join(archiveDir, "2024-06-15", "rapport.pdf")
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("archived file missing: %v", err)
	}
	if string(data) != "%PDF" {
		t.Errorf("archived content = %q", data)
	}

	if _, err := os.Stat(filepath.Join(outDir, "rapport.pdf")); !os.IsNotExist(err) {
		t.Error("source file should be gone after archiving")
	}
}

func TestHandleCompletedMissingSourceFails(t *testing.T) {
	a := NewArchiver(t.TempDir(), t.TempDir())
	event := &amqp.ExportEvent{
		Kind:      amqp.EventExportCompleted,
		FileName:  "ghost.pdf",
		Timestamp: time.Now(),
	}

	if err := a.Handle(event); err == nil {
		t.Error("missing source should be an error so the delivery retries")
	}
}

func TestHandleFailedAndUnknownAreAcked(t *testing.T) {
	a := NewArchiver(t.TempDir(), t.TempDir())

	failed := &amqp.ExportEvent{Kind: amqp.EventExportFailed, FileName: "r.pdf", Error: "boom"}
	if err := a.Handle(failed); err != nil {
		t.Errorf("failed event should not error: %v", err)
	}

	unknown := &amqp.ExportEvent{Kind: "report.export.rescheduled"}
	if err := a.Handle(unknown); err != nil {
		t.Errorf("unknown event should not error: %v", err)
	}
}
