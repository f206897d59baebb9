package interactive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompting is disabled
var ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectEnvironment selects an environment, starting on the current one
func (s *SelectorAdapter) SelectEnvironment(envs []*models.Environment, current string) (*models.Environment, error) {
	if len(envs) == 0 {
		return nil, fmt.Errorf("no environments configured")
	}

	cursor := lo.IndexOf(lo.Map(envs, func(e *models.Environment, _ int) string { return e.ID }), current)
	index, err := s.choose("Select environment", formatEnvironmentOptions(envs, current), max(cursor, 0))
	if err != nil {
		return nil, err
	}
	return envs[index], nil
}

// SelectAccount selects one of the environment's accounts
func (s *SelectorAdapter) SelectAccount(accounts []*models.Account) (*models.Account, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts available in this environment")
	}

	index, err := s.choose("Select account", formatAccountOptions(accounts), 0)
	if err != nil {
		return nil, err
	}
	return accounts[index], nil
}

// SelectContract selects a compiled contract
func (s *SelectorAdapter) SelectContract(contracts []*models.CompiledContract) (*models.CompiledContract, error) {
	if len(contracts) == 0 {
		return nil, fmt.Errorf("no contracts provided for selection")
	}

	index, err := s.choose("Select contract", formatContractOptions(contracts), 0)
	if err != nil {
		return nil, err
	}
	return contracts[index], nil
}

// SelectDeployed selects a deployed contract
func (s *SelectorAdapter) SelectDeployed(deployed []*models.DeployedContract) (*models.DeployedContract, error) {
	if len(deployed) == 0 {
		return nil, fmt.Errorf("no contracts deployed yet")
	}

	index, err := s.choose("Select deployed contract", formatDeployedOptions(deployed), 0)
	if err != nil {
		return nil, err
	}
	return deployed[index], nil
}

// PromptConstructorInputs asks for one value per constructor parameter, prefilled with the current values
func (s *SelectorAdapter) PromptConstructorInputs(contract *models.CompiledContract, current []string) ([]string, error) {
	ctor := contract.Constructor()
	if ctor == nil || len(ctor.Inputs) == 0 {
		return []string{}, nil
	}
	if s.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	values := make([]string, len(ctor.Inputs))
	for i, param := range ctor.Inputs {
		var def string
		if i < len(current) {
			def = current[i]
		}

		prompt := promptui.Prompt{
			Label:     inputLabel(param, i),
			Default:   def,
			AllowEdit: true,
			Templates: &promptui.PromptTemplates{
				Prompt:  "{{ . | bold }}: ",
				Valid:   "{{ . | bold }}: ",
				Success: "{{ . | faint }}: ",
			},
		}
		value, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("input cancelled: %w", err)
		}
		values[i] = value
	}
	return values, nil
}

// choose runs a searchable select over the given options and returns the chosen index
func (s *SelectorAdapter) choose(label string, options []string, cursor int) (int, error) {
	if s.config.NonInteractive {
		return 0, ErrNonInteractive
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      10,
		CursorPos: cursor,
		Searcher:  createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

func inputLabel(param models.ABIParam, i int) string {
	name := param.Name
	if name == "" {
		name = fmt.Sprintf("arg%d", i)
	}
	return fmt.Sprintf("%s (%s)", name, param.Type)
}

// formatEnvironmentOptions creates display strings for environment selection
func formatEnvironmentOptions(envs []*models.Environment, current string) []string {
	return lo.Map(envs, func(env *models.Environment, _ int) string {
		option := fmt.Sprintf("%s (%s, chain %d)", color.New(color.Bold).Sprint(env.DisplayName()), env.ID, env.ChainID)
		if env.ID == current {
			option += color.New(color.FgGreen).Sprint(" [current]")
		}
		return option
	})
}

// formatAccountOptions creates display strings for account selection
func formatAccountOptions(accounts []*models.Account) []string {
	return lo.Map(accounts, func(account *models.Account, _ int) string {
		if account.Label == "" {
			return account.Address.Hex()
		}
		return fmt.Sprintf("%s %s", account.Address.Hex(), color.New(color.FgBlue).Sprintf("(%s)", account.Label))
	})
}

// formatContractOptions creates display strings for contract selection
func formatContractOptions(contracts []*models.CompiledContract) []string {
	return lo.Map(contracts, func(contract *models.CompiledContract, _ int) string {
		name := color.New(color.FgWhite, color.Bold).Sprint(contract.Name)
		if contract.SourcePath == "" {
			return name
		}
		return fmt.Sprintf("%s (%s)", name, color.New(color.FgBlue).Sprint(strings.TrimPrefix(contract.SourcePath, "src/")))
	})
}

// formatDeployedOptions creates display strings for deployed contract selection
func formatDeployedOptions(deployed []*models.DeployedContract) []string {
	return lo.Map(deployed, func(d *models.DeployedContract, _ int) string {
		return fmt.Sprintf("%s at %s (%s)", color.New(color.Bold).Sprint(d.Name), d.Address, d.EnvironmentID)
	})
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.Selector = (*SelectorAdapter)(nil)
