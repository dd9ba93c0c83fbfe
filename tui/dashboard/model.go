// Package dashboard is the terminal host: a bubbletea program whose view is
// assembled from the region fragments the sync engine writes.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/grovetools/teamwatch/tui/keymap"
	"github.com/grovetools/teamwatch/tui/theme"
)

// Controller is the part of the engine the dashboard drives.
type Controller interface {
	Start()
	SetVisible(visible bool)
	PollNow()
}

// Model is the dashboard's bubbletea model.
type Model struct {
	engine Controller
	keys   keymap.KeyMap
	theme  *theme.Theme
	loc    *render.Localizer

	regions  map[render.Region]string
	viewport viewport.Model
	help     help.Model
	ready    bool
	width    int
	height   int
}

// New builds the model. Nil theme or localizer select defaults.
func New(engine Controller, keys keymap.KeyMap, th *theme.Theme, loc *render.Localizer) *Model {
	if th == nil {
		th = theme.New("")
	}
	if loc == nil {
		loc = render.NewLocalizer(nil)
	}
	h := help.New()
	h.Styles.ShortKey = th.Bold
	h.Styles.ShortDesc = th.Muted
	h.Styles.FullKey = th.Bold
	h.Styles.FullDesc = th.Muted

	return &Model{
		engine:  engine,
		keys:    keys,
		theme:   th,
		loc:     loc,
		regions: make(map[render.Region]string),
		help:    h,
	}
}

// Init starts polling. The engine's first writes arrive as regionMsgs.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.engine.Start()
		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case regionMsg:
		m.regions[msg.region] = string(msg.fragment)
		if m.ready {
			m.viewport.SetContent(m.body())
		}
		return m, nil

	case tea.FocusMsg:
		m.engine.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.engine.SetVisible(false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.engine.PollNow()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resize fits the viewport between the header and the footer.
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	height := m.height - lipgloss.Height(m.header()) - lipgloss.Height(m.footer())
	if height < 1 {
		height = 1
	}
	// One column is kept for the scrollbar.
	width := max(m.width-1, 1)
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.viewport.SetContent(m.body())
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return m.header() + "\n" + m.body()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), withScrollbar(&m.viewport, m.theme.Muted), m.footer())
}

func (m *Model) header() string {
	parts := []string{m.theme.Header.Render("teamwatch")}
	if s := m.regions[render.RegionConnection]; s != "" {
		parts = append(parts, s)
	}
	if s := m.regions[render.RegionLastUpdate]; s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) body() string {
	labels := m.loc.Table().Labels
	var b strings.Builder

	b.WriteString(m.theme.Section.Render(sectionTitle(labels.ProcessesTitle, m.regions[render.RegionProcessCount])))
	b.WriteString("\n")
	b.WriteString(m.regions[render.RegionProcesses])
	b.WriteString("\n")
	b.WriteString(m.theme.Section.Render(sectionTitle(labels.TeamsTitle, m.regions[render.RegionTeamCount])))
	b.WriteString("\n")
	b.WriteString(m.regions[render.RegionTeams])
	return b.String()
}

func (m *Model) footer() string {
	return m.theme.Footer.Render(m.help.View(m.keys))
}

// sectionTitle fills a "%d" title with a rendered count badge.
func sectionTitle(format, badge string) string {
	if badge == "" {
		badge = "-"
	}
	if !strings.Contains(format, "%d") {
		return format + " " + badge
	}
	return fmt.Sprintf(strings.Replace(format, "%d", "%s", 1), badge)
}
