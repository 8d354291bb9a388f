package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capgen/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			transcriber := strings.Fields(cfg.Transcription.Command)
			transcriberBinary := ""
			if len(transcriber) > 0 {
				transcriberBinary = transcriber[0]
			}

			statuses := deps.CheckBinaries(deps.Requirements(
				cfg.FFmpegBinary(),
				cfg.FFprobeBinary(),
				transcriberBinary,
			))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(!status.Optional),
					state,
					status.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Required", "Status", "Purpose"},
				rows,
			))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
