package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// refreshMsg asks the tabs view to re-read the store
type refreshMsg struct{}

// tabsModel is the bubbletea model browsing the session views
type tabsModel struct {
	store *state.Store
	snap  state.Snapshot
	tab   models.Tab
	done  bool
}

func newTabsModel(store *state.Store) tabsModel {
	return tabsModel{
		store: store,
		snap:  store.Snapshot(),
		tab:   store.ActiveTab.Get(),
	}
}

// Init is the initial command for bubbletea
func (m tabsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m tabsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = m.store.Snapshot()
		m.tab = m.snap.ActiveTab
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.done = true
			return m, tea.Quit
		case "right", "l", "tab":
			m.switchTo(1)
		case "left", "h", "shift+tab":
			m.switchTo(-1)
		case "1", "2", "3":
			m.tab = models.Tabs[int(msg.String()[0]-'1')]
			m.store.ActiveTab.Set(m.tab)
		}
	}
	return m, nil
}

// switchTo moves the active tab by delta, wrapping around
func (m *tabsModel) switchTo(delta int) {
	i := lo.IndexOf(models.Tabs, m.tab)
	n := len(models.Tabs)
	m.tab = models.Tabs[((i+delta)%n+n)%n]
	m.store.ActiveTab.Set(m.tab)
}

// View renders the UI
func (m tabsModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(render.Header(m.snap))
	b.WriteString("\n\n")

	labels := lo.Map(models.Tabs, func(tab models.Tab, i int) string {
		label := fmt.Sprintf(" %d %s ", i+1, tab)
		if tab == m.tab {
			return color.New(color.FgBlack, color.BgCyan, color.Bold).Sprint(label)
		}
		return color.New(color.Faint).Sprint(label)
	})
	b.WriteString(strings.Join(labels, " "))
	b.WriteString("\n\n")

	var content bytes.Buffer
	render.NewSessionRenderer(&content).RenderTab(m.tab, m.snap)
	b.WriteString(content.String())

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("←/→: switch tab  1-3: jump  q: back\n"))
	return b.String()
}

// browseTabs runs the tabs view until the user leaves it
func browseTabs(store *state.Store) error {
	p := tea.NewProgram(newTabsModel(store))

	// Send blocks until the event loop reads it, and subscribers run while the store is busy
	refresh := func() { go p.Send(refreshMsg{}) }
	unsubscribe := []func(){
		store.Environment.Subscribe(func(*models.Environment) { refresh() }),
		store.DeployedContracts().Subscribe(func([]*models.DeployedContract) { refresh() }),
		store.Transactions().Subscribe(func([]*models.Transaction) { refresh() }),
	}
	defer func() {
		for _, unsub := range unsubscribe {
			unsub()
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tabs view failed: %w", err)
	}
	return nil
}
