package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/rimp/pkg/cli"
)

// NewUpdateCmd checks GitHub for a newer release and offers to install it.
func NewUpdateCmd(ctx context.Context, rt *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "check for a newer release",
		Long:  "Queries the GitHub releases of the configured repository and replaces this binary when a newer build is confirmed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			in := bufio.NewReader(os.Stdin)
			confirm := func(prompt string) (bool, error) {
				if yes {
					return true, nil
				}
				fmt.Fprint(cmd.OutOrStdout(), prompt)
				line, err := in.ReadString('\n')
				if err != nil {
					return false, err
				}
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes", nil
			}
			_, err := cli.CheckForUpdates(ctx, rt.cfg.UpdateRepo, cli.Version, confirm, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "update without asking")
	return cmd
}
