package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/pwr/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the example configuration to the --config path so a new
// install has a file to edit. Refuses to overwrite an existing file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlainln("Wrote %s. Set library.path and songstats.api_key before running.", configPath)
}
