// Package notify publishes branch lifecycle events to configured
// sinks. Delivery failures never fail the workflow operation that
// triggered them.
package notify

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	EventBranchCreated  EventType = "branch_created"
	EventBranchFinished EventType = "branch_finished"
	EventReleaseTagged  EventType = "release_tagged"
)

// Severity constants for events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event describes one lifecycle event.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Branch    string         `json:"branch"`
	Kind      string         `json:"kind,omitempty"`
	Tag       string         `json:"tag,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent builds an event with a fresh ID and timestamp.
func NewEvent(typ EventType, branch, message string) Event {
	id, err := gonanoid.New()
	if err != nil {
		id = "unknown"
	}
	return Event{
		ID:        id,
		Type:      typ,
		Branch:    branch,
		Message:   message,
		Severity:  SeverityInfo,
		Timestamp: time.Now().UTC(),
	}
}

// Notifier sends lifecycle events. Implementations handle their own
// errors gracefully; callers treat a returned error as a warning.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(ctx context.Context, event Event) error {
	return nil
}
