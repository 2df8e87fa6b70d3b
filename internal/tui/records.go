package tui

import (
	"context"
	"fmt"
	"strings"

	"stridelog/internal/analysis"
	"stridelog/internal/service"
	"stridelog/internal/store"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const recordsPageSize = 15

// recordsMode is the records screen's modal state.
type recordsMode int

const (
	modeList recordsMode = iota
	modeDetail
	modeConfirmDelete
)

// recordsChangedMsg tells the app a mutation went through and the
// snapshot needs refreshing.
type recordsChangedMsg struct{ err error }

// RecordsModel is the record list screen model
type RecordsModel struct {
	tracker *service.Tracker
	records []store.Record
	mode    recordsMode
	cursor  int
	offset  int

	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// NewRecordsModel creates a new records model
func NewRecordsModel(tracker *service.Tracker) RecordsModel {
	return RecordsModel{tracker: tracker}
}

// Init initializes the records screen
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

func (m *RecordsModel) setSnapshot(snap service.Snapshot) {
	m.records = snap.Records
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

// capturesKeys reports whether the screen is in a modal flow that must
// see every key before the global bindings do.
func (m RecordsModel) capturesKeys() bool {
	return m.mode != modeList
}

func (m RecordsModel) selected() (store.Record, bool) {
	if len(m.records) == 0 || m.cursor >= len(m.records) {
		return store.Record{}, false
	}
	return m.records[m.cursor], true
}

// Update handles messages
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-8)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 8
		}

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDelete:
			switch msg.String() {
			case "y":
				record, ok := m.selected()
				m.mode = modeList
				if !ok {
					return m, nil
				}
				return m, func() tea.Msg {
					err := m.tracker.Delete(context.Background(), record.ID, true)
					return recordsChangedMsg{err: err}
				}
			case "n", "esc":
				m.mode = modeList
			}
			return m, nil

		case modeDetail:
			switch msg.String() {
			case "esc", "enter":
				m.mode = modeList
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		default:
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
					if m.cursor < m.offset {
						m.offset = m.cursor
					}
				}
			case "down", "j":
				if m.cursor < len(m.records)-1 {
					m.cursor++
					if m.cursor >= m.offset+recordsPageSize {
						m.offset = m.cursor - recordsPageSize + 1
					}
				}
			case "enter":
				if _, ok := m.selected(); ok {
					m.mode = modeDetail
					if m.ready {
						m.viewport.SetContent(m.renderDetail())
						m.viewport.GotoTop()
					}
				}
			case "d":
				if _, ok := m.selected(); ok {
					m.mode = modeConfirmDelete
				}
			}
		}
	}
	return m, nil
}

// View renders the records screen
func (m RecordsModel) View(height int) string {
	if len(m.records) == 0 {
		return "\n  No runs recorded."
	}

	switch m.mode {
	case modeDetail:
		if m.ready {
			return m.viewport.View()
		}
		return m.renderDetail()
	case modeConfirmDelete:
		record, _ := m.selected()
		prompt := warningStyle.Render(fmt.Sprintf(
			"Delete the run on %s (%.1f km)? This does not revoke achievements. [y/n]",
			record.Date, record.DistanceKm))
		return m.renderList() + "\n" + prompt
	default:
		return m.renderList()
	}
}

func (m RecordsModel) renderList() string {
	var sections []string

	end := m.offset + recordsPageSize
	if end > len(m.records) {
		end = len(m.records)
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Runs (%d-%d of %d)", m.offset+1, end, len(m.records)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-5s  %6s  %8s  %7s  %7s  %-12s",
		"Date", "Start", "km", "Time", "Pace", "Delta", "Memo"))
	sections = append(sections, header)

	for i := m.offset; i < end; i++ {
		r := m.records[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-5s  %6.1f  %8s  %7s  %7s  %-12s",
			cursor,
			r.Date,
			r.StartTime,
			r.DistanceKm,
			analysis.FormatDuration(r.TotalDuration),
			formatPace(r.AveragePace),
			renderDelta(r),
			truncate(r.Memo, 12),
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  enter: details  d: delete  j/k: navigate")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordsModel) renderDetail() string {
	record, ok := m.selected()
	if !ok {
		return ""
	}

	var lines []string
	lines = append(lines, cardTitleStyle.Render(fmt.Sprintf("Run on %s", record.Date)))
	lines = append(lines, RenderMetric("Start", record.StartTime, ""))
	lines = append(lines, RenderMetric("Distance", fmt.Sprintf("%.2f km", record.DistanceKm), ""))
	lines = append(lines, RenderMetric("Duration", analysis.FormatDuration(record.TotalDuration), ""))
	lines = append(lines, RenderMetric("Pace", formatPace(record.AveragePace)+" /km", renderDelta(record)))
	lines = append(lines, RenderMetric("Calories", fmt.Sprintf("%.0f kcal", record.Calories), ""))

	if len(record.Splits) > 0 {
		lines = append(lines, "")
		lines = append(lines, cardTitleStyle.Render("Splits"))
		for i, s := range record.Splits {
			lines = append(lines, fmt.Sprintf("  km %-2d  %s", i+1, s))
		}
	}

	var conditions []string
	if record.Weather != "" {
		conditions = append(conditions, record.Weather)
	}
	if record.TemperatureC != 0 {
		conditions = append(conditions, fmt.Sprintf("%.0f°C", record.TemperatureC))
	}
	if record.AirQuality != "" {
		conditions = append(conditions, "air: "+record.AirQuality)
	}
	if record.Condition != "" {
		conditions = append(conditions, "felt: "+record.Condition)
	}
	if len(conditions) > 0 {
		lines = append(lines, "")
		lines = append(lines, RenderMetric("Conditions", strings.Join(conditions, ", "), ""))
	}

	if record.Memo != "" {
		lines = append(lines, "")
		lines = append(lines, helpDescStyle.Render(record.Memo))
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("esc: back"))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
