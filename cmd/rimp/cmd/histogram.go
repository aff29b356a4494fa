package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/rimp/pkg/cli"
	"github.com/Fepozopo/rimp/pkg/engine"
)

// NewHistogramCmd prints or renders the brightness histogram of a file.
func NewHistogramCmd(ctx context.Context, rt *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histogram --in FILE [--out FILE]",
		Short: "brightness histogram of an image",
		Long:  "Prints \"level: count\" for every non-empty brightness level, or renders a bar chart when --out is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" {
				return fmt.Errorf("input path is required. Use --in flag or provide as argument")
			}
			img, _, err := cli.LoadImage(in, modeFlag(cmd))
			if err != nil {
				return err
			}
			hist := img.CalculateHistogram()

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), engine.FormatHistogram(hist))
				return nil
			}
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			chart := engine.RenderHistogramImage(hist, width, height)
			if err := cli.SaveStdImage(out, chart, cli.SaveOptionsFromConfig(rt.cfg)); err != nil {
				return err
			}
			rt.logger.InfoContext(ctx, "histogram rendered", "path", out, "width", chart.Bounds().Dx(), "height", chart.Bounds().Dy())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "input image")
	f.StringP("out", "o", "", "render the histogram to this image instead of printing it")
	f.Int("width", 512, "chart width in pixels")
	f.Int("height", 160, "chart height in pixels")
	f.Bool("gray", false, "load the image as grayscale")
	return cmd
}
