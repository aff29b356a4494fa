package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/rimp/pkg/cli"
	"github.com/Fepozopo/rimp/pkg/colormodel"
)

// appState is resolved once per invocation in PersistentPreRunE and shared by
// the subcommands.
type appState struct {
	cfg    cli.Config
	logger *slog.Logger
	closer io.Closer
}

// newLogger is replaced in tests.
var newLogger = cli.NewLogger

// NewRoot builds the command tree. The returned cleanup closes the log file
// and must run after Execute, whether or not it failed.
func NewRoot(ctx context.Context, gitsha string) (*cobra.Command, func()) {
	rt := &appState{}
	cmd := &cobra.Command{
		Use:           "rimp",
		Short:         "a raster image processor for the terminal",
		Long:          "rimp loads an image as a grid of packed pixels and applies brightness, contrast, geometric, resampling, convolution, histogram and cipher operations to it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if f, _ := cmd.Flags().GetString("env-file"); f != "" {
				envFiles = append(envFiles, f)
			}
			cfg, err := cli.LoadConfig(envFiles...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				logLevel, _ := cmd.Flags().GetString("log-level")
				level, err := cli.ParseLevel(logLevel)
				if err != nil {
					slog.WarnContext(ctx, "Invalid log level, keeping configured level", "level", logLevel, "error", err)
				} else {
					cfg.LogLevel = level
				}
			}
			rt.cfg = cfg
			rt.logger, rt.closer = newLogger(cfg, os.Stderr)
			slog.SetDefault(rt.logger)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewEditCmd(ctx, rt),
		NewApplyCmd(ctx, rt),
		NewHistogramCmd(ctx, rt),
		NewUpdateCmd(ctx, rt),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("env-file", "", "dotenv file to load instead of ./.env")
	cleanup := func() {
		if rt.closer != nil {
			rt.closer.Close()
			rt.closer = nil
		}
	}
	return cmd, cleanup
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

// modeFlag reads the --gray switch shared by the image commands.
func modeFlag(cmd *cobra.Command) colormodel.Mode {
	if gray, _ := cmd.Flags().GetBool("gray"); gray {
		return colormodel.Grayscale
	}
	return colormodel.Color
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "version and git sha for this build",
		Long:  "version and git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", cli.Version, gitsha)
		},
	}
	return cmd
}
