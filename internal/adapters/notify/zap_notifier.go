package notify

import (
	"context"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/ports"
)

// Log-backed implementation of the Notifier port. The core returns run
// results; the caller builds an event and hands it here. Swapping in an
// email or chat channel means replacing this adapter, nothing in the core.
type ZapNotifier struct {
	Log *zap.Logger
}

func NewZapNotifier(log *zap.Logger) *ZapNotifier {
	return &ZapNotifier{Log: log}
}

func (n *ZapNotifier) Send(ctx context.Context, event ports.Event) error {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("run_id", event.RunID),
		zap.String("date", event.Date),
		zap.Int("appended", event.Appended),
	}
	if len(event.DuplicateKeys) > 0 {
		fields = append(fields, zap.Strings("duplicate_keys", event.DuplicateKeys))
	}

	switch event.Kind {
	case ports.EventRunCompleted:
		n.Log.Info(event.Message, fields...)
	default:
		n.Log.Warn(event.Message, fields...)
	}
	return nil
}
