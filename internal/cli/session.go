package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// sessionAction is one entry of the session menu
type sessionAction struct {
	label string
	run   func(ctx context.Context) error
}

// session is an interactive loop over the application store
type session struct {
	app      *app.App
	out      io.Writer
	renderer *render.SessionRenderer
	browsing atomic.Bool
	quit     bool
}

// NewSessionCmd creates the session command
func NewSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive deployment session",
		Long: `Start an interactive session: pick an environment, an account and a contract,
fill in the constructor inputs and deploy. Deployed contracts and transactions
are kept for the rest of the session. The selected environment's node is
probed in the background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.NonInteractive {
				return interactive.ErrNonInteractive
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if _, err := app.StartSession.Run(ctx); err != nil {
				return err
			}

			s := &session{app: app, out: cmd.OutOrStdout(), renderer: render.NewSessionRenderer(cmd.OutOrStdout())}
			return s.run(ctx)
		},
	}
}

func (s *session) run(ctx context.Context) error {
	go s.app.ProbeEnvironment.Watch(ctx, s.app.Config.ProbeInterval)

	unsubscribe := s.app.Store.ActiveTab.Subscribe(func(tab models.Tab) {
		// the tabs view renders its own switches
		if tab == models.TabInteraction && !s.browsing.Load() {
			s.renderer.RenderTab(tab, s.app.Store.Snapshot())
		}
	})
	defer unsubscribe()

	if len(s.app.Store.Contracts.Get()) == 0 {
		fmt.Fprintln(s.out, render.FormatWarning(render.NoContractsMessage))
	}

	for !s.quit {
		fmt.Fprintln(s.out)
		s.renderer.RenderHeader(s.app.Store.Snapshot())

		actions := s.actions()
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.label
		}

		menu := promptui.Select{
			Label: "What next?",
			Items: labels,
			Size:  len(labels),
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "▸ {{ . | cyan }}",
				Inactive: "  {{ . }}",
				Selected: "{{ . | faint }}",
			},
		}
		index, _, err := menu.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		if err := actions[index].run(ctx); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, render.FormatError(err.Error()))
		}
	}
	return nil
}

// actions lists the menu entries available for the current selection
func (s *session) actions() []sessionAction {
	snap := s.app.Store.Snapshot()

	deployLabel := "Deploy"
	if snap.SelectedContract != nil {
		deployLabel = fmt.Sprintf("Deploy %s", snap.SelectedContract.Name)
	}

	actions := []sessionAction{
		{label: deployLabel, run: s.deploy},
		{label: "Select contract", run: s.selectContract},
	}
	if snap.SelectedContract.ConstructorParamCount() > 0 {
		actions = append(actions, sessionAction{label: "Edit constructor inputs", run: s.editInputs})
	}
	actions = append(actions,
		sessionAction{label: "Select account", run: s.selectAccount},
		sessionAction{label: "Switch environment", run: s.switchEnvironment},
	)
	if len(snap.DeployedContracts) > 0 {
		actions = append(actions, sessionAction{label: "Select deployed contract", run: s.selectDeployed})
	}
	actions = append(actions,
		sessionAction{label: "Browse tabs", run: s.browse},
		sessionAction{label: "Reload contracts", run: s.reload},
		sessionAction{label: color.New(color.Faint).Sprint("Quit"), run: func(context.Context) error {
			s.quit = true
			return nil
		}},
	)
	return actions
}

func (s *session) deploy(ctx context.Context) error {
	// failures are reported through the status sink
	if _, err := s.app.DeployContract.Run(ctx); err != nil {
		s.app.Log.Debug("deploy failed", "error", err)
	}
	return nil
}

func (s *session) selectContract(ctx context.Context) error {
	chosen, err := s.app.Selector.SelectContract(s.app.Store.Contracts.Get())
	if err != nil {
		return err
	}
	contract, err := s.app.SelectContract.Run(ctx, chosen.Name)
	if err != nil {
		return err
	}
	if contract.ConstructorParamCount() > 0 {
		return s.editInputs(ctx)
	}
	return nil
}

func (s *session) editInputs(ctx context.Context) error {
	contract := s.app.Store.SelectedContract.Get()
	if contract == nil {
		return errors.New("no contract selected")
	}

	values, err := s.app.Selector.PromptConstructorInputs(contract, s.app.Store.ConstructorInputs().Get())
	if err != nil {
		return err
	}
	return s.app.EditConstructorInputs.Run(ctx, values)
}

func (s *session) selectAccount(ctx context.Context) error {
	account, err := s.app.Selector.SelectAccount(s.app.Store.Accounts.Get())
	if err != nil {
		return err
	}
	_, err = s.app.SelectAccount.Run(ctx, account.Address.Hex())
	return err
}

func (s *session) switchEnvironment(ctx context.Context) error {
	result, err := s.app.ListEnvironments.Run(ctx)
	if err != nil {
		return err
	}

	envs := make([]*models.Environment, len(result.Environments))
	for i, status := range result.Environments {
		envs[i] = status.Environment
	}

	current := ""
	if env := s.app.Store.Environment.Get(); env != nil {
		current = env.ID
	}
	chosen, err := s.app.Selector.SelectEnvironment(envs, current)
	if err != nil {
		return err
	}

	if _, err := s.app.SelectEnvironment.Run(ctx, chosen.ID); err != nil {
		return err
	}
	_, err = s.app.ProbeEnvironment.Run(ctx)
	return err
}

func (s *session) selectDeployed(ctx context.Context) error {
	chosen, err := s.app.Selector.SelectDeployed(s.app.Store.DeployedContracts().Get())
	if err != nil {
		return err
	}
	deployed, err := s.app.SelectDeployed.Run(ctx, chosen.Address)
	if err != nil {
		return err
	}
	s.renderer.RenderInteraction(deployed)
	return nil
}

func (s *session) browse(ctx context.Context) error {
	s.browsing.Store(true)
	defer s.browsing.Store(false)
	return browseTabs(s.app.Store)
}

func (s *session) reload(ctx context.Context) error {
	contracts, err := s.app.LoadContracts.Run(ctx)
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		fmt.Fprintln(s.out, render.FormatWarning(render.NoContractsMessage))
		return nil
	}
	fmt.Fprintln(s.out, render.FormatSuccess(fmt.Sprintf("Loaded %d contracts", len(contracts))))
	return nil
}
