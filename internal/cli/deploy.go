package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var constructorArgs []string

	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a compiled contract",
		Long: `Deploy a compiled contract to the selected environment.

The contract is picked interactively when no name is given. Constructor
arguments are passed in order with --arg, or prompted for when omitted.
Arrays and tuples are given as JSON, e.g. --arg '["0x..", "0x.."]'.`,
		Example: `  catapult deploy Counter --arg 42
  catapult deploy Token --env local-era --account 1 --arg "Catapult" --arg CAT
  catapult deploy Counter --arg 1 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := render.ValidateFormat(app.Config.Format); err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := app.StartSession.Run(ctx)
			if err != nil {
				return err
			}
			if len(session.Contracts) == 0 {
				return fmt.Errorf("%s", render.NoContractsMessage)
			}

			contract, err := pickContract(cmd, app, args)
			if err != nil {
				return err
			}

			if err := fillConstructorInputs(cmd, app, contract, constructorArgs); err != nil {
				return err
			}

			result, deployErr := app.DeployContract.Run(ctx)
			if result == nil {
				return deployErr
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.Format)
			if err := renderer.Render(result, deployErr); err != nil {
				return err
			}
			return deployErr
		},
	}

	cmd.Flags().String("account", "", "Account to deploy with, as an address or an index into the environment's accounts")
	cmd.Flags().StringArrayVar(&constructorArgs, "arg", nil, "Constructor argument (repeat in parameter order)")
	cmd.Flags().String("format", "text", "Output format: text, json or yaml")

	return cmd
}

// pickContract selects the contract named in args, or asks for one
func pickContract(cmd *cobra.Command, app *app.App, args []string) (*models.CompiledContract, error) {
	if len(args) == 1 {
		return app.SelectContract.Run(cmd.Context(), args[0])
	}

	chosen, err := app.Selector.SelectContract(app.Store.Contracts.Get())
	if err != nil {
		return nil, err
	}
	return app.SelectContract.Run(cmd.Context(), chosen.Name)
}

// fillConstructorInputs stores the constructor inputs from flags, or prompts for them
func fillConstructorInputs(cmd *cobra.Command, app *app.App, contract *models.CompiledContract, values []string) error {
	if cmd.Flags().Changed("arg") {
		return app.EditConstructorInputs.Run(cmd.Context(), values)
	}
	if contract.ConstructorParamCount() == 0 {
		return nil
	}

	values, err := app.Selector.PromptConstructorInputs(contract, app.Store.ConstructorInputs().Get())
	if err != nil {
		return err
	}
	return app.EditConstructorInputs.Run(cmd.Context(), values)
}
