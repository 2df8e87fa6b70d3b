package tui

import (
	"fmt"
	"math"

	"stridelog/internal/analysis"
	"stridelog/internal/service"
	"stridelog/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	snap service.Snapshot
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if len(m.snap.Records) == 0 {
		return "\n  No runs yet. Press 's' to sync."
	}

	var sections []string

	streakCard := m.renderStreakCard()
	baselineCard := m.renderBaselineCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, streakCard, "  ", baselineCard)
	sections = append(sections, topRow)

	if len(m.snap.Records) > 2 {
		sections = append(sections, m.renderPaceChart())
	}

	sections = append(sections, m.renderRecentRecords())

	help := statusStyle.Render("Press 's' to sync, 'e' to export, '2' for the record list")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStreakCard() string {
	title := cardTitleStyle.Render("Streak")

	streak := fmt.Sprintf("%d days", m.snap.StreakCount)
	if m.snap.StreakCount > 0 {
		streak = streakStyle.Render("🔥 " + streak)
	} else {
		streak = lockedStyle.Render(streak)
	}

	lines := []string{
		RenderMetric("Current streak", streak, ""),
		RenderMetric("Active days", fmt.Sprintf("%d", m.snap.TotalActiveDays), ""),
		RenderMetric("Points", fmt.Sprintf("%d", m.snap.Points), ""),
		RenderMetric("Badges", fmt.Sprintf("%d", len(m.snap.Badges)), ""),
		RenderMetric("Medals", fmt.Sprintf("%d", len(m.snap.Medals)), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderBaselineCard() string {
	title := cardTitleStyle.Render("Baselines")

	b := m.snap.Baselines
	lines := []string{
		RenderMetric("Best this month", paceOrDash(b.FastestOfMonth), ""),
		RenderMetric("Previous run", paceOrDash(b.PriorDay), ""),
		RenderMetric("Monthly average", paceOrDash(b.MonthlyAverage), ""),
		RenderMetric("Weekly average", paceOrDash(b.WeeklyAverage), ""),
		RenderMetric("Slowest this week", paceOrDash(b.WorstOfWeek), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderPaceChart() string {
	title := cardTitleStyle.Render("Pace - Recent Trend (sec/km, lower is faster)")

	// Oldest to newest, capped at the last 30 runs.
	records := m.snap.Records
	if len(records) > 30 {
		records = records[:30]
	}
	series := make([]float64, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].AveragePace > 0 {
			series = append(series, records[i].AveragePace)
		}
	}
	if len(series) < 3 {
		return ""
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentRecords() string {
	title := cardTitleStyle.Render("Recent Runs")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %6s  %8s  %7s  %7s  %6s  %-10s",
		"Date", "km", "Time", "Pace", "Delta", "kcal", "Weather"))

	rows := []string{header}
	for i, r := range m.snap.Records {
		if i >= 5 {
			break
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %6.1f  %8s  %7s  %7s  %6.0f  %-10s",
			r.Date,
			r.DistanceKm,
			analysis.FormatDuration(r.TotalDuration),
			formatPace(r.AveragePace),
			renderDelta(r),
			r.Calories,
			truncate(r.Weather, 10),
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func renderDelta(r store.Record) string {
	if r.AveragePace <= 0 {
		return "-"
	}
	if r.Improved {
		return fmt.Sprintf("↓%.0fs", -r.PaceDelta)
	}
	return fmt.Sprintf("↑%.0fs", r.PaceDelta)
}

func formatPace(pace float64) string {
	if pace <= 0 {
		return "-"
	}
	return analysis.FormatPace(int(math.Round(pace)))
}

func paceOrDash(pace *float64) string {
	if pace == nil {
		return "-"
	}
	return formatPace(*pace)
}
