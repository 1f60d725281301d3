// Package tui provides the interactive sub-agent inspector.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/crewmux/internal/agent"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6366F1"))

	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// agentItem implements list.Item for the agent list.
type agentItem struct {
	agent *agent.SubAgent
}

func (i agentItem) FilterValue() string { return i.agent.Name }
func (i agentItem) Title() string       { return fmt.Sprintf("%s (%s)", i.agent.Name, i.agent.ID) }
func (i agentItem) Description() string {
	return fmt.Sprintf("%d tools • %s", len(i.agent.Tools), scoreStyle.Render(fmt.Sprintf("score %.2f", i.agent.ComplementarityScore)))
}

// Model is the inspector application model. It shows the agent list on the
// left path and a detail viewport after selection.
type Model struct {
	list     list.Model
	viewport viewport.Model
	agents   []*agent.SubAgent
	selected *agent.SubAgent
	width    int
	height   int
}

// New creates an inspector over a built registry.
func New(reg *agent.Registry) *Model {
	agents := reg.List()
	items := make([]list.Item, 0, len(agents))
	for _, sa := range agents {
		items = append(items, agentItem{agent: sa})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 80, 20)
	l.Title = fmt.Sprintf("Sub-agents (%d)", len(agents))
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &Model{list: l, agents: agents, viewport: viewport.New(80, 20)}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.selected != nil {
				m.selected = nil
				return m, nil
			}
			return m, tea.Quit
		case "esc":
			m.selected = nil
			return m, nil
		case "enter":
			if m.selected == nil {
				if item, ok := m.list.SelectedItem().(agentItem); ok {
					m.selected = item.agent
					m.viewport.SetContent(renderDetail(item.agent))
					m.viewport.GotoTop()
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.selected != nil {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.selected != nil {
		return detailStyle.Render(m.viewport.View()) + "\n" + helpStyle.Render("esc back • q close")
	}
	return m.list.View() + "\n" + helpStyle.Render("enter details • / filter • q quit")
}

func renderDetail(sa *agent.SubAgent) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(sa.Name) + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("ID:"), sa.ID)
	fmt.Fprintf(&b, "%s %.2f\n", labelStyle.Render("Complementarity:"), sa.ComplementarityScore)
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Description:"), sa.Description)

	b.WriteString(labelStyle.Render(fmt.Sprintf("Tools (%d):", len(sa.Tools))) + "\n")
	for _, t := range sa.Tools {
		fmt.Fprintf(&b, "  • %s: %s\n", t.Key(), t.Description)
	}

	b.WriteString("\n" + labelStyle.Render("System prompt:") + "\n")
	b.WriteString(sa.SystemPrompt + "\n")
	return b.String()
}

// Run starts the inspector and blocks until it exits.
func Run(reg *agent.Registry) error {
	p := tea.NewProgram(New(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
