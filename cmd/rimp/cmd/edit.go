package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/rimp/pkg/cli"
)

// NewEditCmd starts the interactive editor.
func NewEditCmd(ctx context.Context, rt *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [path]",
		Short: "interactive editing session",
		Long:  "Opens an optional image and reads single-key commands from stdin. Press h inside the session for help.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			err := cli.RunCLI(ctx, rt.cfg, path, modeFlag(cmd), rt.logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Bool("gray", false, "load images as grayscale")
	return cmd
}
