// Package html renders dashboard regions as HTML fragments for the web
// host. All producer text passes through html/template, so names, subjects
// and free-text summaries are escaped in their output context.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer implements render.Renderer with html/template.
type Renderer struct {
	loc  *render.Localizer
	tmpl *template.Template
}

var _ render.Renderer = (*Renderer)(nil)

// New parses the embedded templates. A nil localizer uses the default
// locale.
func New(loc *render.Localizer) (*Renderer, error) {
	if loc == nil {
		loc = render.NewLocalizer(nil)
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse html templates")
	}
	return &Renderer{loc: loc, tmpl: tmpl}, nil
}

// Processes renders the process list.
func (r *Renderer) Processes(procs []models.ProcessInfo, now time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	data := struct {
		Processes []render.ProcessView
		Empty     string
	}{
		Processes: render.BuildProcesses(procs, now, table),
		Empty:     table.Labels.NoProcesses,
	}
	return r.execute(render.RegionProcesses, "processes", data)
}

// Teams renders every team card.
func (r *Renderer) Teams(teams []models.Team, now time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	data := struct {
		Teams []render.TeamView
		Empty string
	}{
		Teams: render.BuildTeams(teams, now, table),
		Empty: table.Labels.NoTeams,
	}
	return r.execute(render.RegionTeams, "teams", data)
}

// LastUpdate renders the "last updated" caption.
func (r *Renderer) LastUpdate(at time.Time) (render.Fragment, error) {
	table := r.loc.Table()
	label := fmt.Sprintf(table.Labels.LastUpdate, at.Format(table.TimeFormat))
	return r.execute(render.RegionLastUpdate, "last-update", label)
}

// Count renders a count badge.
func (r *Renderer) Count(n int) (render.Fragment, error) {
	return r.execute("count", "count", n)
}

// Connection renders the connection indicator.
func (r *Renderer) Connection(connected bool) (render.Fragment, error) {
	table := r.loc.Table()
	label := table.Labels.Disconnected
	if connected {
		label = table.Labels.Connected
	}
	data := struct {
		Connected bool
		Label     string
	}{connected, label}
	return r.execute(render.RegionConnection, "connection", data)
}

func (r *Renderer) execute(region render.Region, name string, data any) (render.Fragment, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.RenderFailed(string(region), err)
	}
	return render.Fragment(buf.String()), nil
}
