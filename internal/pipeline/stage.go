package pipeline

import (
	"context"
	"fmt"
)

// Stage is one extract-transform-load step. Extract reads the stage's
// input, Transform does the per-item work, and Load persists the output;
// the three run strictly in order with no overlap.
type Stage[In, Out any] interface {
	Name() string
	Extract(ctx context.Context) (In, error)
	Transform(ctx context.Context, input In) (Out, error)
	Load(ctx context.Context, output Out) error
}

// RunStage drives a stage through its three steps, emitting lifecycle
// events on the notifier. Any step error fails the stage.
func RunStage[In, Out any](ctx context.Context, stage Stage[In, Out], notifier *Observable) (Out, error) {
	var zero Out
	name := stage.Name()

	notifier.Notify(NewEvent(StageStarted, name))

	input, err := stage.Extract(ctx)
	if err != nil {
		notifier.Notify(NewEvent(StageFailed, name).WithError(err))
		return zero, fmt.Errorf("%s extract failed: %w", name, err)
	}

	output, err := stage.Transform(ctx, input)
	if err != nil {
		notifier.Notify(NewEvent(StageFailed, name).WithError(err))
		return zero, fmt.Errorf("%s transform failed: %w", name, err)
	}

	if err := stage.Load(ctx, output); err != nil {
		notifier.Notify(NewEvent(StageFailed, name).WithError(err))
		return zero, fmt.Errorf("%s load failed: %w", name, err)
	}

	notifier.Notify(NewEvent(StageCompleted, name))
	return output, nil
}
