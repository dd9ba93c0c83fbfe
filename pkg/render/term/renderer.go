// Package term renders dashboard regions as lipgloss-styled text for the
// terminal host.
package term

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/grovetools/teamwatch/tui/theme"
)

// Renderer implements render.Renderer for terminals.
type Renderer struct {
	loc   *render.Localizer
	theme *theme.Theme
	icons theme.Icons
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a terminal renderer. Nil arguments select the defaults.
func New(loc *render.Localizer, th *theme.Theme, icons theme.Icons) *Renderer {
	if loc == nil {
		loc = render.NewLocalizer(nil)
	}
	if th == nil {
		th = theme.New("")
	}
	if icons == (theme.Icons{}) {
		icons = theme.IconSet("")
	}
	return &Renderer{loc: loc, theme: th, icons: icons}
}

// Processes renders one line per process.
func (r *Renderer) Processes(procs []models.ProcessInfo, now time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	views := render.BuildProcesses(procs, now, table)
	if len(views) == 0 {
		return render.Fragment(r.theme.EmptyText.Render(table.Labels.NoProcesses)), nil
	}

	lines := make([]string, 0, len(views))
	for _, p := range views {
		parts := []string{
			r.icons.Process,
			r.theme.Bold.Render(p.PIDLabel),
			r.theme.Muted.Render(p.UptimeLabel),
		}
		if p.Command != "" {
			parts = append(parts, r.theme.Process.Render(clean(p.Command)))
		}
		if p.Team != "" {
			parts = append(parts, r.theme.Badge.Render("["+clean(p.Team)+"]"))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return render.Fragment(strings.Join(lines, "\n")), nil
}

// Teams renders a bordered card per team.
func (r *Renderer) Teams(teams []models.Team, now time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	views := render.BuildTeams(teams, now, table)
	if len(views) == 0 {
		return render.Fragment(r.theme.EmptyText.Render(table.Labels.NoTeams)), nil
	}

	cards := make([]string, 0, len(views))
	for _, v := range views {
		cards = append(cards, r.team(v))
	}
	return render.Fragment(strings.Join(cards, "\n")), nil
}

func (r *Renderer) team(v render.TeamView) string {
	var b strings.Builder

	b.WriteString(r.icons.Team + " " + r.theme.TeamName.Render(clean(v.Name)))
	if v.CreatedLabel != "" {
		b.WriteString("  " + r.theme.Muted.Render(v.CreatedLabel))
	}
	b.WriteString("\n" + r.theme.Muted.Render(v.OfficeLabel) + "\n\n")

	b.WriteString(r.theme.Section.Render(v.MembersLabel) + "\n")
	if len(v.Members) == 0 && v.Unassigned == nil {
		b.WriteString(r.theme.EmptyText.Render(v.NoMembersLabel) + "\n")
	}
	for _, a := range v.Members {
		b.WriteString(r.agent(a))
	}
	if d := v.Unassigned; d != nil {
		b.WriteString(r.icons.Desk + " " + r.theme.Desk.Render(d.Title) + "\n")
		b.WriteString(r.theme.Dialogue.Render(d.Line) + "\n")
		b.WriteString(r.tasks(d.Tasks, "  "))
	}

	b.WriteString("\n" + r.theme.Section.Render(v.TasksLabel) + "\n")
	if len(v.Tasks) == 0 {
		b.WriteString(r.theme.EmptyText.Render(v.NoTasksLabel))
	} else {
		b.WriteString(strings.TrimSuffix(r.tasks(v.Tasks, ""), "\n"))
	}

	return r.theme.TeamCard.Render(b.String())
}

func (r *Renderer) agent(a render.AgentView) string {
	var b strings.Builder

	motionIcon, motionStyle := r.icons.Rest, r.theme.Resting
	if a.InMotion {
		motionIcon, motionStyle = r.icons.Motion, r.theme.InMotion
	}

	line := []string{a.Emoji, r.theme.AgentName.Render(clean(a.Name))}
	if a.AgentType != "" {
		line = append(line, r.theme.AgentType.Render("("+clean(a.AgentType)+")"))
	}
	line = append(line,
		r.theme.StatusStyle(r.theme.AgentStatus, a.StatusClass).Render(a.StatusLabel),
		motionStyle.Render(motionIcon+" "+a.MotionLabel),
	)
	b.WriteString(strings.Join(line, " ") + "\n")

	for _, d := range a.Dialogues {
		b.WriteString(r.theme.Dialogue.Render(r.icons.Bullet+" "+clean(d)) + "\n")
	}
	if len(a.Tasks) > 0 {
		b.WriteString("  " + r.theme.Muted.Render(a.DeskLabel) + "\n")
		b.WriteString(r.tasks(a.Tasks, "  "))
	}
	return b.String()
}

func (r *Renderer) tasks(tasks []render.TaskView, indent string) string {
	var b strings.Builder
	for _, t := range tasks {
		status := r.theme.StatusStyle(r.theme.TaskStatus, t.StatusClass).Render(t.StatusLabel)
		fmt.Fprintf(&b, "%s%s #%s %s %s %s\n",
			indent,
			r.icons.Task,
			clean(t.ID),
			status,
			clean(t.Subject),
			r.theme.Muted.Render(clean(t.OwnerLabel)),
		)
	}
	return b.String()
}

// LastUpdate renders the "last updated" caption.
func (r *Renderer) LastUpdate(at time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	return render.Fragment(r.theme.Muted.Render(fmt.Sprintf(table.Labels.LastUpdate, at.Format(table.TimeFormat)))), nil
}

// Count renders a count badge.
func (r *Renderer) Count(n int) (render.Fragment, error) {
	return render.Fragment(r.theme.Badge.Render(strconv.Itoa(n))), nil
}

// Connection renders the connection indicator.
func (r *Renderer) Connection(connected bool) (render.Fragment, error) {
	table := r.loc.Table()
	style, label := r.theme.Disconnected, table.Labels.Disconnected
	if connected {
		style, label = r.theme.Connected, table.Labels.Connected
	}
	return render.Fragment(style.Render(label)), nil
}

// clean drops control characters from producer text so it cannot inject
// terminal escape sequences.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
