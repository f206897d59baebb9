package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
)

// NewEnvironmentsCmd creates the environments command
func NewEnvironmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "environments",
		Aliases: []string{"envs"},
		Short:   "List configured environments and whether their nodes are up",
		Long: `List the environments configured in catapult.toml and the built-in defaults.

Each environment's node is probed for its chain ID; a node that does not
answer, or answers with another chain ID, is reported as down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := render.ValidateFormat(app.Config.Format); err != nil {
				return err
			}

			result, err := app.ListEnvironments.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewEnvironmentsRenderer(cmd.OutOrStdout(), app.Config.Format).Render(result)
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json or yaml")

	return cmd
}
