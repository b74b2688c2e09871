package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Logger is the minimal printf-style logging surface.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the structured observability surface of the workflows.
type Observer interface {
	Logger

	// Event emits a structured event.
	Event(event Event)

	// Progress reports progress for a long-running operation.
	Progress(phase string, current, total int)

	// WithFields returns a new Observer carrying additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType
	Phase     string // e.g. "group", "network", "fleet", "upload"
	Message   string
	Resource  string // resource name if applicable
	Timestamp time.Time
	Fields    map[string]string
}

// EventType classifies provisioning events.
type EventType string

const (
	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates the resource was already present and
	// reconciliation is a no-op.
	EventResourceExists EventType = "resource.exists"
	// EventResourceFailed indicates resource creation failed.
	EventResourceFailed EventType = "resource.failed"

	// EventConflict indicates an existing resource diverges from the
	// requested state. The run proceeds with the existing state; the event
	// is the only trace of the divergence.
	EventConflict EventType = "resource.conflict"

	// EventUploadFailed indicates a single file transfer failed inside a
	// best-effort batch.
	EventUploadFailed EventType = "upload.failed"

	// EventProgress indicates progress of a long-running operation.
	EventProgress EventType = "progress"
)

// ConsoleObserver implements Observer on the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{contextFields: make(map[string]string)}
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}
	log.Print(o.formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	message := fmt.Sprintf("%d/%d", current, total)
	if total > 0 {
		message = fmt.Sprintf("%d/%d (%d%%)", current, total, (current*100)/total)
	}
	o.Event(Event{Type: EventProgress, Phase: phase, Message: message})
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ConsoleObserver{contextFields: merged}
}

func (o *ConsoleObserver) formatEvent(event Event) string {
	parts := []string{string(event.Type)}
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)
	if len(event.Fields) > 0 {
		fieldParts := make([]string, 0, len(event.Fields))
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}
	return strings.Join(parts, " ")
}

// LogConflict emits the soft-conflict warning: the resource exists with a
// property diverging from the requested value, and the existing value wins.
func LogConflict(observer Observer, phase, resource, property, requested, actual string) {
	observer.Event(Event{
		Type:     EventConflict,
		Phase:    phase,
		Resource: resource,
		Message:  fmt.Sprintf("requested %s %q but existing resource has %q; keeping existing value", property, requested, actual),
	})
}

// LogResourceCreated emits a resource creation event.
func LogResourceCreated(observer Observer, phase, kind, name string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("created %s", kind),
	})
}

// LogResourceExists emits a no-op reconciliation event.
func LogResourceExists(observer Observer, phase, kind, name string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("%s already present", kind),
	})
}

// LogResourceCreating emits an event before a create call is issued, so a
// run that dies mid-create still names the resource it was working on.
func LogResourceCreating(observer Observer, phase, kind, name string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("creating %s", kind),
	})
}

// LogResourceFailed emits a resource creation failure event.
func LogResourceFailed(observer Observer, phase, kind, name string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("failed to create %s: %v", kind, err),
	})
}
