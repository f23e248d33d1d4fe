package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"fleet-allocation-service/internal/domain"
)

// Progress states for one van's pace tracking within a single day.
const (
	ProgressNotAllocated      = "not_allocated"
	ProgressAllocated         = "allocated"
	ProgressPartiallyReported = "partially_reported"
	ProgressFullyReported     = "fully_reported"
)

// Progress events.
const (
	eventAllocate = "allocate"
	eventReport   = "report"
	eventComplete = "complete"
)

// VanDayProgress tracks one van's reporting progress through a day:
// not_allocated → allocated → partially_reported → fully_reported.
// Transitions are monotonic; there is no retraction path.
type VanDayProgress struct {
	machine *fsm.FSM
}

func NewVanDayProgress() *VanDayProgress {
	return &VanDayProgress{
		machine: fsm.NewFSM(
			ProgressNotAllocated,
			fsm.Events{
				{Name: eventAllocate, Src: []string{ProgressNotAllocated}, Dst: ProgressAllocated},
				{Name: eventReport, Src: []string{ProgressAllocated, ProgressPartiallyReported}, Dst: ProgressPartiallyReported},
				{Name: eventComplete, Src: []string{ProgressAllocated, ProgressPartiallyReported}, Dst: ProgressFullyReported},
			},
			fsm.Callbacks{},
		),
	}
}

// ProgressFor replays a van's current state from its pace record: allocated
// is whether the van has a historical row for the date, reported is how many
// checkpoints carry values.
func ProgressFor(ctx context.Context, allocated bool, reported int) (*VanDayProgress, error) {
	p := NewVanDayProgress()
	if !allocated {
		return p, nil
	}
	if err := p.Allocate(ctx); err != nil {
		return nil, err
	}
	if reported > 0 {
		if err := p.Report(ctx, reported); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *VanDayProgress) State() string { return p.machine.Current() }

func (p *VanDayProgress) Allocate(ctx context.Context) error {
	return p.fire(ctx, eventAllocate)
}

// Report advances the machine after reported checkpoints carry values.
func (p *VanDayProgress) Report(ctx context.Context, reported int) error {
	if reported <= 0 {
		return fmt.Errorf("pace progress: report with no checkpoint values")
	}
	if reported >= len(domain.Checkpoints()) {
		return p.fire(ctx, eventComplete)
	}
	return p.fire(ctx, eventReport)
}

func (p *VanDayProgress) fire(ctx context.Context, event string) error {
	err := p.machine.Event(ctx, event)
	if err == nil {
		return nil
	}
	// Re-reporting while already partially reported stays in place.
	var noop fsm.NoTransitionError
	if errors.As(err, &noop) {
		return nil
	}
	return fmt.Errorf("pace progress: %s from %s: %w", event, p.machine.Current(), err)
}
