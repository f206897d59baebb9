package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// SessionRenderer renders the views of an interactive session from a store snapshot
type SessionRenderer struct {
	out io.Writer
}

// NewSessionRenderer creates a new session renderer
func NewSessionRenderer(out io.Writer) *SessionRenderer {
	return &SessionRenderer{out: out}
}

// RenderHeader renders the current environment, account and contract on one line
func (r *SessionRenderer) RenderHeader(snap state.Snapshot) {
	fmt.Fprintln(r.out, Header(snap))
}

// Header formats the session status line
func Header(snap state.Snapshot) string {
	env := mutedStyle.Sprint("no environment")
	if snap.Environment != nil {
		status := downStyle.Sprint("●")
		if snap.Environment.Alive {
			status = aliveStyle.Sprint("●")
		}
		env = fmt.Sprintf("%s %s", status, snap.Environment.DisplayName())
	}

	account := mutedStyle.Sprint("no account")
	if snap.SelectedAccount != nil {
		account = shorten(snap.SelectedAccount.Address.Hex(), 6)
	}

	contract := mutedStyle.Sprint("no contract")
	if snap.SelectedContract != nil {
		contract = nameStyle.Sprint(snap.SelectedContract.Name)
	}

	return strings.Join([]string{env, account, contract}, mutedStyle.Sprint(" | "))
}

// RenderTab renders the view of the given tab
func (r *SessionRenderer) RenderTab(tab models.Tab, snap state.Snapshot) {
	fmt.Fprintln(r.out, headerStyle.Sprint(title(string(tab))))
	switch tab {
	case models.TabDeployment:
		NewContractsRenderer(r.out, FormatText).RenderSelection(snap.SelectedContract, snap.ConstructorInputs)
	case models.TabInteraction:
		r.RenderInteraction(snap.SelectedDeployed)
	case models.TabTransactions:
		r.RenderTransactions(snap.Transactions)
	}
}

// RenderInteraction renders the deployed contract selected for interaction
func (r *SessionRenderer) RenderInteraction(deployed *models.DeployedContract) {
	if deployed == nil {
		fmt.Fprintln(r.out, mutedStyle.Sprint("No deployed contract selected"))
		return
	}

	fmt.Fprintf(r.out, "%s at %s\n", nameStyle.Sprint(deployed.Name), addressStyle.Sprint(deployed.Address))
	for _, element := range deployed.ABI {
		if element.Type != models.ABIFunction {
			continue
		}
		params := make([]string, len(element.Inputs))
		for i, p := range element.Inputs {
			params[i] = strings.TrimSpace(p.Type + " " + p.Name)
		}
		fmt.Fprintf(r.out, "  %s(%s) %s\n", element.Name, strings.Join(params, ", "), mutedStyle.Sprint(element.StateMutability))
	}
}

// RenderDeployed renders the deployed contracts, newest first
func (r *SessionRenderer) RenderDeployed(deployed []*models.DeployedContract) {
	if len(deployed) == 0 {
		fmt.Fprintln(r.out, mutedStyle.Sprint("No contracts deployed yet"))
		return
	}

	t := newTable(r.out, table.Row{"CONTRACT", "ADDRESS", "ENVIRONMENT", "DEPLOYED"})
	for _, d := range deployed {
		t.AppendRow(table.Row{
			nameStyle.Sprint(d.Name),
			addressStyle.Sprint(d.Address),
			d.EnvironmentID,
			mutedStyle.Sprint(d.DeployedAt.Format("15:04:05")),
		})
	}
	t.Render()
}

// RenderTransactions renders the transaction log, newest first
func (r *SessionRenderer) RenderTransactions(txs []*models.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(r.out, mutedStyle.Sprint("No transactions yet"))
		return
	}

	t := newTable(r.out, table.Row{"TYPE", "TRANSACTION", "ENV", "TIME"})
	for _, tx := range txs {
		t.AppendRow(table.Row{
			title(string(tx.Kind)),
			shorten(tx.TransactionID, 10),
			tx.Environment,
			mutedStyle.Sprint(tx.CreatedAt.Format("15:04:05")),
		})
	}
	t.Render()
}
