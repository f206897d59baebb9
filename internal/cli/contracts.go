package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
)

// NewContractsCmd creates the contracts command
func NewContractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"ls"},
		Short:   "List compiled contracts ready for deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := render.ValidateFormat(app.Config.Format); err != nil {
				return err
			}

			contracts, err := app.LoadContracts.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewContractsRenderer(cmd.OutOrStdout(), app.Config.Format).Render(contracts)
		},
	}

	cmd.Flags().String("format", "text", "Output format: text, json or yaml")

	return cmd
}
