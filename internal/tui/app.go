package tui

import (
	"context"
	"os"

	"stridelog/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenRecords
	ScreenAchievements
	ScreenHelp
)

// RemoteChangedMsg is sent from outside the program when the watcher
// detects a remote change. The payload carries nothing: the only
// response is a full reconcile.
type RemoteChangedMsg struct{}

type reconcileDoneMsg struct{ err error }

type snapshotMsg struct{ snap service.Snapshot }

type exportDoneMsg struct {
	path string
	err  error
}

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	tracker    *service.Tracker
	exportPath string

	// Screen models
	dashboard    DashboardModel
	records      RecordsModel
	achievements AchievementsModel
	help         HelpModel

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App around the tracker
func NewApp(tracker *service.Tracker, exportPath string) *App {
	return &App{
		screen:       ScreenDashboard,
		tracker:      tracker,
		exportPath:   exportPath,
		dashboard:    NewDashboardModel(),
		records:      NewRecordsModel(tracker),
		achievements: NewAchievementsModel(),
		help:         NewHelpModel(),
	}
}

// Init loads the cached state and kicks off the first reconcile
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.snapshotCmd, a.reconcileCmd)
}

func (a *App) snapshotCmd() tea.Msg {
	return snapshotMsg{snap: a.tracker.Snapshot()}
}

func (a *App) reconcileCmd() tea.Msg {
	if err := a.tracker.Reconcile(context.Background()); err != nil {
		return reconcileDoneMsg{err: err}
	}
	return reconcileDoneMsg{}
}

func (a *App) exportCmd() tea.Msg {
	data, err := a.tracker.Export()
	if err != nil {
		return exportDoneMsg{err: err}
	}
	if err := os.WriteFile(a.exportPath, data, 0600); err != nil {
		return exportDoneMsg{err: err}
	}
	return exportDoneMsg{path: a.exportPath}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings, unless the records screen is in a modal flow
		if !a.records.capturesKeys() || a.screen != ScreenRecords {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				return a, nil
			case "2":
				a.screen = ScreenRecords
				return a, nil
			case "3":
				a.screen = ScreenAchievements
				return a, nil
			case "s":
				a.status = "syncing..."
				return a, a.reconcileCmd
			case "e":
				return a, a.exportCmd
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case RemoteChangedMsg:
		a.status = "remote changed, syncing..."
		return a, a.reconcileCmd

	case reconcileDoneMsg:
		if msg.err != nil {
			a.status = "sync failed: " + msg.err.Error()
		} else {
			a.status = ""
		}
		return a, a.snapshotCmd

	case recordsChangedMsg:
		if msg.err != nil {
			a.status = "delete failed: " + msg.err.Error()
		}
		return a, a.snapshotCmd

	case exportDoneMsg:
		if msg.err != nil {
			a.status = "export failed: " + msg.err.Error()
		} else {
			a.status = "exported to " + msg.path
		}
		return a, nil

	case snapshotMsg:
		a.dashboard.snap = msg.snap
		a.records.setSnapshot(msg.snap)
		a.achievements.snap = msg.snap
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenRecords:
		var m tea.Model
		m, cmd = a.records.Update(msg)
		a.records = m.(RecordsModel)
	case ScreenAchievements:
		var m tea.Model
		m, cmd = a.achievements.Update(msg)
		a.achievements = m.(AchievementsModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenRecords:
		content = a.records.View(a.height)
	case ScreenAchievements:
		content = a.achievements.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("stridelog")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Records", ScreenRecords},
		{"3", "Achievements", ScreenAchievements},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[s] Sync") +
		"  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	snap := a.dashboard.snap

	sync := renderSyncStatus(snap.SyncStatus)
	if snap.MutationStatus == service.MutationFailed {
		sync += "  " + errorStyle.Render("last save not synced")
	}
	if a.status != "" {
		sync += "  " + a.status
	}
	return statusStyle.Render(sync)
}

func renderSyncStatus(s service.SyncStatus) string {
	switch s {
	case service.SyncReconciling:
		return warningStyle.Render("● " + s.String())
	case service.SyncDegraded:
		return errorStyle.Render("● " + s.String())
	default:
		return successStyle.Render("● " + s.String())
	}
}
