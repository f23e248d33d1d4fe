package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fleet-allocation-service/internal/domain"
	"fleet-allocation-service/internal/ports"
)

// One raw driver checkpoint submission, as collected. Label and Count are
// uninterpreted strings; parsing failures discard this submission alone.
type PaceSubmission struct {
	VanID string
	Date  string
	Label string
	Count string
}

// PaceTracker applies driver checkpoint submissions to the historical log.
type PaceTracker struct {
	Store ports.HistoryStore
	// Recorder, when present, keeps the raw submission channel alongside
	// the derived checkpoint columns.
	Recorder ports.SubmissionRecorder
	Log      *zap.Logger
}

// Submit validates and applies one checkpoint submission.
//
// A malformed submission (unknown label, non-numeric or negative count) is
// rejected with a *MalformedSubmissionError and affects nothing else. A van
// with no historical row for the date has no pace record to fill and is
// likewise rejected. Checkpoint values only move forward within a day: a
// value, once set, is never unset and a cumulative count never shrinks.
func (t *PaceTracker) Submit(ctx context.Context, sub PaceSubmission) error {
	cp, err := domain.ParseCheckpoint(strings.TrimSpace(sub.Label))
	if err != nil {
		return &MalformedSubmissionError{VanID: sub.VanID, Field: "checkpoint", Detail: err.Error()}
	}

	count, err := strconv.Atoi(strings.TrimSpace(sub.Count))
	if err != nil {
		return &MalformedSubmissionError{VanID: sub.VanID, Field: "count", Detail: fmt.Sprintf("not a number: %q", sub.Count)}
	}
	if count < 0 {
		return &MalformedSubmissionError{VanID: sub.VanID, Field: "count", Detail: fmt.Sprintf("negative count: %d", count)}
	}

	rows, err := t.Store.ReadForDate(ctx, sub.Date)
	if err != nil {
		return fmt.Errorf("pace submit: read log for %s: %w", sub.Date, err)
	}

	var rec *domain.HistoricalRecord
	for i := range rows {
		if rows[i].VanID == sub.VanID {
			rec = &rows[i]
			break
		}
	}
	if rec == nil {
		return &MalformedSubmissionError{VanID: sub.VanID, Field: "van", Detail: "no allocation recorded for " + sub.Date}
	}

	if prev, ok := rec.Checkpoints[cp]; ok && count < prev {
		return &MalformedSubmissionError{
			VanID:  sub.VanID,
			Field:  "count",
			Detail: fmt.Sprintf("cumulative count for %s would shrink from %d to %d", cp, prev, count),
		}
	}

	// Replay and advance the progress machine; an invalid transition means
	// the submission would retract progress, which is not modeled.
	reported := len(rec.Checkpoints)
	if _, ok := rec.Checkpoints[cp]; !ok {
		reported++
	}
	progress, err := ProgressFor(ctx, true, reported)
	if err != nil {
		return fmt.Errorf("pace submit: %w", err)
	}

	if t.Recorder != nil {
		if err := t.Recorder.Record(ctx, sub.VanID, sub.Date, cp, count); err != nil {
			return fmt.Errorf("pace submit: record submission: %w", err)
		}
	}

	if err := t.Store.SetCheckpoint(ctx, sub.VanID, sub.Date, cp, count); err != nil {
		return fmt.Errorf("pace submit: set %s for van %s on %s: %w", cp, sub.VanID, sub.Date, err)
	}

	t.Log.Info("pace checkpoint recorded",
		zap.String("van_id", sub.VanID),
		zap.String("date", sub.Date),
		zap.String("checkpoint", string(cp)),
		zap.Int("count", count),
		zap.String("progress", progress.State()),
	)
	return nil
}
