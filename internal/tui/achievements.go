package tui

import (
	"fmt"

	"stridelog/internal/analysis"
	"stridelog/internal/service"
	"stridelog/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AchievementsModel is the achievements screen model
type AchievementsModel struct {
	snap service.Snapshot
}

// NewAchievementsModel creates a new achievements model
func NewAchievementsModel() AchievementsModel {
	return AchievementsModel{}
}

// Init initializes the achievements screen
func (m AchievementsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the achievements screen
func (m AchievementsModel) View() string {
	badges := m.renderCatalogue("Badges", store.KindBadge, m.snap.Badges)
	medals := m.renderCatalogue("Medals", store.KindMedal, m.snap.Medals)

	points := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Points"),
		metricValueStyle.Render(fmt.Sprintf("%d", m.snap.Points)),
		helpDescStyle.Render("Earned per run; never reduced."),
	))

	row := lipgloss.JoinHorizontal(lipgloss.Top, badges, "  ", medals)
	return lipgloss.JoinVertical(lipgloss.Left, row, points)
}

func (m AchievementsModel) renderCatalogue(title string, kind store.AchievementKind, unlocked map[string]struct{}) string {
	var lines []string

	count := 0
	total := 0
	for _, rule := range analysis.Rules {
		if rule.Kind != kind {
			continue
		}
		total++

		if _, ok := unlocked[rule.ID]; ok {
			count++
			lines = append(lines, unlockedStyle.Render("✓ "+rule.Title))
		} else {
			lines = append(lines, lockedStyle.Render("· "+rule.Title))
		}
	}

	head := cardTitleStyle.Render(fmt.Sprintf("%s (%d/%d)", title, count, total))
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{head}, lines...)...))
}
