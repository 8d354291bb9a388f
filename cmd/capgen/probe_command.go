package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"capgen/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", result.Format.Filename)
			fmt.Fprintf(out, "Container: %s\n", result.Format.FormatName)
			fmt.Fprintf(out, "Duration: %.2fs  Size: %d bytes  Bitrate: %d b/s\n\n",
				result.DurationSeconds(), result.SizeBytes(), result.BitRate())

			rows := make([][]string, 0, len(result.Streams))
			for _, stream := range result.Streams {
				resolution := ""
				if stream.Width > 0 && stream.Height > 0 {
					resolution = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
				}
				channels := ""
				if stream.Channels > 0 {
					channels = strconv.Itoa(stream.Channels)
				}
				rows = append(rows, []string{
					strconv.Itoa(stream.Index),
					stream.CodecType,
					stream.CodecName,
					resolution,
					channels,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Stream", "Type", "Codec", "Resolution", "Channels"},
				rows,
				0, 4,
			))
			return nil
		},
	}
}
