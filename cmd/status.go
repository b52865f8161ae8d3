package main

import (
	"context"

	"github.com/desertthunder/pwr/internal/formatter"
	"github.com/desertthunder/pwr/internal/pipeline"
	"github.com/urfave/cli/v3"
)

// Status prints per-stage checkpoint progress and repository counts for
// the latest run of the configured year.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	states, err := orchestrator.CheckpointStates()
	if err != nil {
		return err
	}

	rows := make([]formatter.StatusRow, 0, len(pipeline.StageNames))
	for _, stage := range pipeline.StageNames {
		row := formatter.StatusRow{Stage: stage, Saved: "never"}
		if state := states[stage]; state != nil {
			row.Processed = len(state.Processed)
			row.Failed = len(state.Failed)
			row.Saved = state.SavedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}

	extracted, enriched := orchestrator.TrackCounts()

	r.writePlainln("Run directory: %s", orchestrator.RunDir())
	r.writePlain("%s\n", formatter.StatusTable(rows))
	r.writePlain("Extracted tracks: %d\nEnriched tracks: %d\nReview queue: %d\n",
		extracted, enriched, len(orchestrator.GetReviewQueue()))
	return nil
}

// ReviewList prints the manual review queue.
func (r *Runner) ReviewList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	entries := orchestrator.GetReviewQueue()
	if len(entries) == 0 {
		return r.writePlainln("Review queue is empty.")
	}

	r.writePlainln("%d tracks awaiting review", len(entries))
	return r.writePlain("%s\n", formatter.ReviewTable(entries))
}

// ReviewRemove drops one entry from the review queue after an operator
// has dealt with it.
func (r *Runner) ReviewRemove(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	id := cmd.String("id")
	if err := orchestrator.ReviewQueue().Remove(id); err != nil {
		return err
	}

	r.logger.Info("removed review entry", "id", id)
	return r.writePlainln("Removed %s from the review queue.", id)
}

// CheckpointsClear removes every stage checkpoint. Extracted and enriched
// data stay in place, so the next run revisits every track without
// refetching anything already persisted.
func (r *Runner) CheckpointsClear(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	if err := orchestrator.ClearCheckpoints(); err != nil {
		return err
	}

	r.logger.Info("checkpoints cleared", "dir", orchestrator.RunDir())
	return r.writePlainln("Checkpoints cleared for %s.", orchestrator.RunDir())
}

// Reset clears checkpoints, repositories, and the review queue for the
// latest run. Exports already written are left alone.
func (r *Runner) Reset(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	if err := orchestrator.ResetPipeline(); err != nil {
		return err
	}

	r.logger.Info("pipeline reset", "dir", orchestrator.RunDir())
	return r.writePlainln("Reset %s. The next run starts from scratch.", orchestrator.RunDir())
}
