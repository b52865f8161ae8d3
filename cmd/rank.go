package main

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/pwr/internal/pipeline"
	"github.com/urfave/cli/v3"
)

// rankCommand re-runs ranking computations over already-enriched data
func rankCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "Ranking operations over enriched data",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Recompute rankings from the latest run and write the exports",
				Flags: []cli.Flag{
					configFlag(),
					yearFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (overrides configuration)",
					},
				},
				Action: r.RankExport,
			},
		},
	}
}

// RankExport recomputes rankings from the latest run's enriched repository
// and writes the export files. Ranking is deterministic over stored data,
// so re-exporting never needs the stats service.
func (r *Runner) RankExport(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := cmd.String("output"); dir != "" {
		config.Output.Dir = dir
	}

	orchestrator, err := r.openOrchestrator(config, false)
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	result, err := orchestrator.Run(ctx, pipeline.RunOptions{Rank: true})
	if err != nil {
		return err
	}

	outputDir := filepath.Join(config.Output.Dir, strconv.Itoa(config.Pipeline.Year))
	return r.writePlainln("Exported rankings for %d tracks to %s.", result.TotalTracks(), outputDir)
}
