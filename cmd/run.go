package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pwr/internal/formatter"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/pipeline"
	"github.com/desertthunder/pwr/internal/ui"
	"github.com/urfave/cli/v3"
)

// Run executes the selected pipeline stages and prints the rankings when
// the rank stage produced a result.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := r.openOrchestrator(config, cmd.Bool("new-run"))
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	opts := pipeline.RunOptions{
		Extract:  cmd.Bool("extract"),
		Enrich:   cmd.Bool("enrich"),
		Rank:     cmd.Bool("rank"),
		Playlist: cmd.String("playlist"),
	}

	var result *models.PowerRankingResult
	if cmd.Bool("tui") {
		result, err = r.runWithTUI(ctx, orchestrator, opts)
	} else {
		result, err = orchestrator.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	if result == nil {
		return r.writePlainln("Stages complete. Run with no stage flags, or with --rank, to produce rankings.")
	}

	r.writePlainln("Power Rankings %d", result.Year)
	r.writePlain("%s\n", formatter.RankingsTable(result, cmd.Int("top")))
	r.writePlain("Success rate: %.0f%%\n", orchestrator.SuccessRate()*100)

	if review := orchestrator.GetReviewQueue(); len(review) > 0 {
		r.writePlain("%d tracks need manual review; run `pwr review list`\n", len(review))
	}

	return nil
}

// runWithTUI runs the pipeline behind a bubbletea program fed by a
// channel observer. Logs are silenced during the run so they do not fight
// the renderer; the event log file still captures everything.
func (r *Runner) runWithTUI(ctx context.Context, orchestrator *pipeline.Orchestrator, opts pipeline.RunOptions) (*models.PowerRankingResult, error) {
	events := pipeline.NewChannelObserver(256)
	orchestrator.Attach(events)

	r.logger.SetOutput(io.Discard)
	defer r.logger.SetOutput(os.Stderr)

	run := func(ctx context.Context) (*models.PowerRankingResult, error) {
		return orchestrator.Run(ctx, opts)
	}

	model := ui.NewModel(ctx, run, events)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Result(), model.Err()
}
