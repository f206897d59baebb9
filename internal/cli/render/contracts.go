package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// NoContractsMessage is shown when no artifact is deployable
const NoContractsMessage = "No contracts ready for deployment yet, compile a solidity contract"

// ContractsRenderer renders the compiled contracts
type ContractsRenderer struct {
	out    io.Writer
	format string
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer, format string) *ContractsRenderer {
	return &ContractsRenderer{out: out, format: format}
}

type contractView struct {
	Name        string `json:"name" yaml:"name"`
	Constructor string `json:"constructor" yaml:"constructor"`
	Size        int    `json:"bytecodeSize" yaml:"bytecodeSize"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Render renders the contract list
func (r *ContractsRenderer) Render(contracts []*models.CompiledContract) error {
	if r.format == FormatJSON || r.format == FormatYAML {
		views := lo.Map(contracts, func(c *models.CompiledContract, _ int) contractView {
			return contractView{
				Name:        c.Name,
				Constructor: c.ConstructorSignature(),
				Size:        c.BytecodeSize(),
				Source:      c.SourcePath,
			}
		})
		return writeStructured(r.out, r.format, views)
	}

	if len(contracts) == 0 {
		fmt.Fprintln(r.out, NoContractsMessage)
		return nil
	}

	t := newTable(r.out, table.Row{"CONTRACT", "CONSTRUCTOR", "SIZE", "SOURCE"})
	for _, c := range contracts {
		t.AppendRow(table.Row{
			nameStyle.Sprint(c.Name),
			c.ConstructorSignature(),
			fmt.Sprintf("%d B", c.BytecodeSize()),
			sourceStyle.Sprint(c.SourcePath),
		})
	}
	t.Render()
	return nil
}

// RenderSelection renders the deployment view of the session: the selected contract and its inputs
func (r *ContractsRenderer) RenderSelection(contract *models.CompiledContract, inputs []string) {
	if contract == nil {
		fmt.Fprintln(r.out, mutedStyle.Sprint("No contract selected"))
		return
	}

	fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(contract.Name), mutedStyle.Sprint(contract.ConstructorSignature()))
	ctor := contract.Constructor()
	if ctor == nil {
		return
	}
	for i, param := range ctor.Inputs {
		value := ""
		if i < len(inputs) {
			value = inputs[i]
		}
		if value == "" {
			value = mutedStyle.Sprint("<empty>")
		}
		fmt.Fprintf(r.out, "  %s %s = %s\n", param.Type, param.Name, value)
	}
}
