package ports

import "context"

type EventKind string

const (
	EventRunCompleted  EventKind = "run_completed"
	EventBatchRejected EventKind = "batch_rejected"
	EventRunFailed     EventKind = "run_failed"
)

// One completion/error notification. The core never sends these itself; it
// returns results and the caller builds an Event and decides whether to
// notify, keeping the matching logic decoupled from any channel.
type Event struct {
	Kind          EventKind
	RunID         string
	Date          string
	Message       string
	Appended      int
	DuplicateKeys []string
}

// Port: fire-and-forget side channel for run notifications. Failures here
// are non-fatal to the computation that produced the event.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}
