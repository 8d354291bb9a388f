package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logFileFlag string
	modelFlag := &modelValue{}

	ctx := newCommandContext(&configFlag, modelFlag, &logFileFlag)

	rootCmd := &cobra.Command{
		Use:           "capgen [flags] <input-video> <output-video>",
		Short:         "Generate burned-in captions for a video",
		Long:          "capgen extracts a video's audio, transcribes the speech, and re-encodes the video with styled captions burned in.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(ctx, cmd, args[0], args[1])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().VarP(modelFlag, "model", "m", "Transcription model size (tiny, base, small, medium, large)")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Mirror logs to a file in addition to the console")

	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
