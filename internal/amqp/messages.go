package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the report exchange.
const (
	EventExportCompleted = "report.export.completed"
	EventExportFailed    = "report.export.failed"
)

// ExportEvent announces the outcome of a report export. Consumers that
// archive or forward reports pick the file up from the shared output
// directory by name.
type ExportEvent struct {
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExportCompletedEvent creates a completion event for the given file
func NewExportCompletedEvent(fileName string) *ExportEvent {
	return &ExportEvent{
		Kind:      EventExportCompleted,
		FileName:  fileName,
		Timestamp: time.Now(),
	}
}

// NewExportFailedEvent creates a failure event carrying the cause
func NewExportFailedEvent(fileName string, cause error) *ExportEvent {
	e := &ExportEvent{
		Kind:      EventExportFailed,
		FileName:  fileName,
		Timestamp: time.Now(),
	}
	if cause != nil {
		e.Error = cause.Error()
	}
	return e
}

// ToJSON converts the event to JSON bytes
func (e *ExportEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExportEventFromJSON creates an event from JSON bytes
func ExportEventFromJSON(data []byte) (*ExportEvent, error) {
	var e ExportEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
