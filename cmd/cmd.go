// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func yearFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "year",
		Usage: "Ranking year (overrides configuration)",
	}
}

// setupCommand writes a starter configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a starter configuration file",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// runCommand executes the pipeline
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the power ranking pipeline",
		Flags: []cli.Flag{
			configFlag(),
			yearFlag(),
			&cli.BoolFlag{
				Name:  "extract",
				Usage: "Run only the extract stage",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Run only the enrich stage",
			},
			&cli.BoolFlag{
				Name:  "rank",
				Usage: "Run only the rank stage",
			},
			&cli.BoolFlag{
				Name:  "new-run",
				Usage: "Start a fresh run directory instead of resuming the latest",
			},
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Playlist name (overrides configuration)",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of rankings to print",
				Value: 25,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Monitor the run in an interactive terminal UI",
			},
		},
		Action: r.Run,
	}
}

// statusCommand reports pipeline progress
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show checkpoint progress and repository counts",
		Flags:  []cli.Flag{configFlag(), yearFlag()},
		Action: r.Status,
	}
}

// reviewCommand manages the manual review queue
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Manual review queue operations",
		Flags: []cli.Flag{configFlag(), yearFlag()},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tracks awaiting manual review",
				Flags:  []cli.Flag{configFlag(), yearFlag()},
				Action: r.ReviewList,
			},
			{
				Name:  "remove",
				Usage: "Remove a track from the review queue",
				Flags: []cli.Flag{
					configFlag(),
					yearFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Track identity key to remove",
						Required: true,
					},
				},
				Action: r.ReviewRemove,
			},
		},
	}
}

// checkpointsCommand manages stage checkpoints
func checkpointsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "checkpoints",
		Usage: "Checkpoint operations",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Clear every stage checkpoint, keeping extracted data",
				Flags:  []cli.Flag{configFlag(), yearFlag()},
				Action: r.CheckpointsClear,
			},
		},
	}
}

// resetCommand wipes the active run
func resetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Clear checkpoints, repositories, and the review queue for the active run",
		Flags:  []cli.Flag{configFlag(), yearFlag()},
		Action: r.Reset,
	}
}
