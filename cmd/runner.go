package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pwr/internal/pipeline"
	"github.com/desertthunder/pwr/internal/services"
	"github.com/desertthunder/pwr/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	library services.LibraryReader
	stats   services.StatsService
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner. Library
// and Stats are optional; when nil the run command builds them from the
// loaded configuration.
type RunnerOpts struct {
	Config  *shared.Config
	Library services.LibraryReader
	Stats   services.StatsService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		library: opts.Library,
		stats:   opts.Stats,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, runCommand, rankCommand, statusCommand, reviewCommand, checkpointsCommand, resetCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration for a command: the file
// named by --config when it exists, the Runner's config otherwise, with
// the --year flag applied on top.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config

	if path := cmd.String("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if year := cmd.Int("year"); year != 0 {
		config.Pipeline.Year = year
	}

	return config, nil
}

// openOrchestrator builds the pipeline orchestrator for a command, wiring
// the library reader and stats service from configuration unless the
// Runner was constructed with them injected.
func (r *Runner) openOrchestrator(config *shared.Config, newRun bool) (*pipeline.Orchestrator, error) {
	library := r.library
	if library == nil {
		lib, err := services.NewSQLiteLibrary(config.Library.Path, r.logger)
		if err != nil {
			return nil, err
		}
		library = lib
	}

	stats := r.stats
	if stats == nil {
		stats = services.NewSongstatsClient(config.Songstats, r.logger)
	}

	return pipeline.NewOrchestrator(config, library, stats, r.logger, newRun)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
