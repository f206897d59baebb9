package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// EnvironmentsRenderer renders environment lists
type EnvironmentsRenderer struct {
	out    io.Writer
	format string
}

// NewEnvironmentsRenderer creates a new environments renderer
func NewEnvironmentsRenderer(out io.Writer, format string) *EnvironmentsRenderer {
	return &EnvironmentsRenderer{out: out, format: format}
}

type environmentView struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ChainID  uint64 `json:"chainId" yaml:"chainId"`
	RPCURL   string `json:"rpcUrl" yaml:"rpcUrl"`
	Accounts int    `json:"accounts" yaml:"accounts"`
	Alive    bool   `json:"alive" yaml:"alive"`
	Current  bool   `json:"current" yaml:"current"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Render renders the environment list with liveness
func (r *EnvironmentsRenderer) Render(result *usecase.ListEnvironmentsResult) error {
	views := lo.Map(result.Environments, func(s usecase.EnvironmentStatus, _ int) environmentView {
		view := environmentView{
			ID:       s.Environment.ID,
			Name:     s.Environment.DisplayName(),
			ChainID:  s.Environment.ChainID,
			RPCURL:   s.Environment.RPCURL,
			Accounts: len(s.Environment.Accounts),
			Alive:    s.Environment.Alive,
			Current:  s.Environment.ID == result.Current,
		}
		if s.Error != nil {
			view.Error = s.Error.Error()
		}
		return view
	})

	if r.format == FormatJSON || r.format == FormatYAML {
		return writeStructured(r.out, r.format, views)
	}

	if len(views) == 0 {
		fmt.Fprintln(r.out, "No environments configured in catapult.toml")
		return nil
	}

	t := newTable(r.out, table.Row{"", "ID", "NAME", "CHAIN", "RPC", "ACCOUNTS", "STATUS"})
	for _, v := range views {
		marker := " "
		if v.Current {
			marker = "*"
		}
		status := aliveStyle.Sprint(title("alive"))
		if !v.Alive {
			status = downStyle.Sprint(title("down"))
			if v.Error != "" {
				status += mutedStyle.Sprintf(" (%s)", v.Error)
			}
		}
		t.AppendRow(table.Row{marker, nameStyle.Sprint(v.ID), v.Name, v.ChainID, v.RPCURL, v.Accounts, status})
	}
	t.Render()
	return nil
}
