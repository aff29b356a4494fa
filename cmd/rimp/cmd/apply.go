package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/rimp/pkg/cli"
	"github.com/Fepozopo/rimp/pkg/engine"
)

// NewApplyCmd runs a batch of commands over one file.
func NewApplyCmd(ctx context.Context, rt *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply --in FILE --out FILE STEP...",
		Short: "apply commands to an image non-interactively",
		Long: `Each STEP is name[:arg[:arg...]], applied left to right, for example

  rimp apply --in a.png --out b.webp rotate shiftHorizontal:1 filter:sharpen encrypt:42

Every step is validated before the first one runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			steps := make([]cli.Step, len(args))
			for i, a := range args {
				st, err := cli.ParseStep(a)
				if err != nil {
					return err
				}
				steps[i] = st
			}

			img, format, err := cli.LoadImage(in, modeFlag(cmd))
			if err != nil {
				return err
			}
			rt.logger.InfoContext(ctx, "loaded", "path", in, "format", format, "width", img.Width(), "height", img.Height())
			if err := cli.RunPipeline(img, cli.NewMetaStore(engine.Commands), steps, rt.cfg); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := cli.SaveImage(out, img, cli.SaveOptionsFromConfig(rt.cfg)); err != nil {
				return err
			}
			rt.logger.InfoContext(ctx, "saved", "path", out, "format", cli.FormatForPath(out), "steps", len(steps))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("in", "i", "", "input image")
	f.StringP("out", "o", "", "output image; the extension selects the format")
	f.Bool("gray", false, "process as grayscale")
	return cmd
}
