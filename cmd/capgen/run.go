package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"capgen/internal/logging"
	"capgen/internal/pipeline"
	"capgen/internal/services"
)

const timePrecision = 100 * time.Millisecond

// runGenerate drives one caption run end to end and prints the final
// success or failure banner. Progress appears as structured log lines per
// stage; stdout stays reserved for the banner.
func runGenerate(ctx *commandContext, cmd *cobra.Command, input, output string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context(), input, output)
	if err != nil {
		details := services.Details(err)
		return fmt.Errorf("caption generation failed (%s): %s", details.Kind, details.Message)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Captioned video written to %s (%d segments via %s, %s)\n",
		result.Output, result.Segments, result.Source, result.Elapsed.Round(timePrecision))
	return nil
}
