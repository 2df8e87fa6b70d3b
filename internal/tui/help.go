package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Record list"},
		{"3", "Achievements"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	globalSection := m.renderSection("Anywhere", []keyHelp{
		{"s", "Sync with the remote store"},
		{"e", "Export records to a JSON file"},
	})
	sections = append(sections, globalSection)

	recordsSection := m.renderSection("Record List", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"enter", "Open run details"},
		{"d", "Delete run (asks for confirmation)"},
	})
	sections = append(sections, recordsSection)

	sections = append(sections, m.renderNumbersHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderNumbersHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Numbers Explained"))
	lines = append(lines, "")

	items := []struct {
		name string
		desc string
	}{
		{"Streak", "Consecutive days with a run, counted back from today or yesterday."},
		{"Pace", "Seconds per kilometer, shown as 5'30\". Lower is faster."},
		{"Delta", "This run's pace against the monthly average at save time."},
		{"Points", "10 per kilometer plus a bonus for beating the baseline. Deleting runs never takes points back."},
		{"Calories", "MET estimate from speed and body weight."},
	}

	for _, item := range items {
		lines = append(lines, "  "+helpKeyStyle.Render(item.name))
		lines = append(lines, "  "+helpDescStyle.Render(item.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
