package html

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/grovetools/teamwatch/pkg/locale"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(nil)
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, f render.Fragment) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(f)))
	require.NoError(t, err)
	return doc
}

func TestProcesses(t *testing.T) {
	r := newRenderer(t)

	frag, err := r.Processes([]models.ProcessInfo{
		{PID: 4242, Command: "claude", StartedAt: now.Add(-90 * time.Second)},
		{PID: 7, StartedAt: now.Add(-5 * time.Second)},
	}, now)
	require.NoError(t, err)

	doc := parse(t, frag)
	assert.Equal(t, 2, doc.Find(".process-item").Length())
	assert.Equal(t, "PID: 4242", doc.Find(".process-pid").First().Text())
	assert.Equal(t, "Uptime: 1m 30s", doc.Find(".process-uptime").First().Text())
	assert.Equal(t, 1, doc.Find(".process-command").Length())
}

func TestProcessesEmpty(t *testing.T) {
	r := newRenderer(t)

	frag, err := r.Processes(nil, now)
	require.NoError(t, err)

	doc := parse(t, frag)
	assert.Equal(t, "No agent processes detected", doc.Find("p.empty-state").Text())
}

func TestTeamsEscapesProducerText(t *testing.T) {
	r := newRenderer(t)

	teams := []models.Team{{
		Name: "<script>alert(1)</script>",
		Members: []models.Agent{{
			Name:           "api-dev",
			Status:         `idle" onclick="x`,
			MessageSummary: "<b>merged</b>",
		}},
		Tasks: []models.Task{{ID: "1", Subject: "<img src=x>", Status: models.TaskPending, Owner: "api-dev"}},
	}}

	frag, err := r.Teams(teams, now)
	require.NoError(t, err)

	assert.NotContains(t, string(frag), "<script>")
	assert.NotContains(t, string(frag), "<img")
	assert.NotContains(t, string(frag), "<b>")

	doc := parse(t, frag)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, "<script>alert(1)</script>", doc.Find(".team-name").Text())
	assert.Equal(t, "<img src=x>", doc.Find(".team-tasks .task-subject").Text())

	status := doc.Find(".agent-status")
	_, hasOnclick := status.Attr("onclick")
	assert.False(t, hasOnclick)
	class, _ := status.Attr("class")
	assert.Equal(t, "agent-status idleonclickx", class)
}

func TestTeamsComposition(t *testing.T) {
	r := newRenderer(t)

	teams := []models.Team{{
		Name:      "storefront",
		CreatedAt: time.Date(2026, 2, 10, 9, 12, 0, 0, time.UTC),
		Members: []models.Agent{
			{Name: "team-lead", Status: models.AgentWorking, LastActiveTime: now.Add(-10 * time.Second)},
			{Name: "api-dev", Status: models.AgentIdle},
		},
		Tasks: []models.Task{
			{ID: "1", Subject: "cart", Status: models.TaskInProgress, Owner: "api-dev"},
			{ID: "2", Subject: "docs", Status: models.TaskPending},
		},
	}}

	frag, err := r.Teams(teams, now)
	require.NoError(t, err)
	doc := parse(t, frag)

	assert.Equal(t, 1, doc.Find(".team-card").Length())
	assert.Equal(t, "Created: 2026-02-10 09:12", doc.Find(".team-created").Text())
	assert.Equal(t, "Office (2 colleagues, 1 busy)", doc.Find(".team-office").Text())

	lead := doc.Find(`.agent-item[data-agent="team-lead"]`)
	assert.True(t, lead.HasClass("in-motion"))
	assert.Equal(t, "🧑‍💼", lead.Find(".agent-emoji").Text())
	assert.Equal(t, 0, lead.Find(".agent-desk").Length())

	api := doc.Find(`.agent-item[data-agent="api-dev"]`)
	assert.True(t, api.HasClass("resting"))
	assert.Equal(t, 1, api.Find(".agent-desk .task-item").Length())
	assert.Equal(t, "I'm on task #1: cart", api.Find(".agent-dialogues li").First().Text())

	desk := doc.Find(".agent-item.desk")
	assert.Equal(t, 1, desk.Length())
	assert.Equal(t, "Front desk [1 unclaimed]", desk.Find(".agent-name").Text())
	assert.Equal(t, "2", desk.Find(".task-item").AttrOr("data-task", ""))

	assert.Equal(t, 2, doc.Find(".team-tasks .task-item").Length())
}

func TestTeamsEmptyStates(t *testing.T) {
	r := newRenderer(t)

	frag, err := r.Teams([]models.Team{}, now)
	require.NoError(t, err)
	assert.Equal(t, "No active teams found", parse(t, frag).Find("p.empty-state").Text())

	frag, err = r.Teams([]models.Team{{Name: "solo"}}, now)
	require.NoError(t, err)
	doc := parse(t, frag)
	assert.Equal(t, "No members", doc.Find(".team-members .empty-state").Text())
	assert.Equal(t, "No tasks", doc.Find(".team-tasks .empty-state").Text())
	assert.Equal(t, 0, doc.Find(".agent-item.desk").Length())
}

func TestStatusFragments(t *testing.T) {
	r := newRenderer(t)

	frag, err := r.LastUpdate(time.Date(2026, 2, 10, 10, 0, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, render.Fragment("Last updated: 10:00:05"), frag)

	frag, err = r.Count(3)
	require.NoError(t, err)
	assert.Equal(t, render.Fragment("3"), frag)

	frag, err = r.Connection(false)
	require.NoError(t, err)
	doc := parse(t, frag)
	sel := doc.Find(".status-indicator")
	assert.True(t, sel.HasClass("disconnected"))
	assert.Equal(t, "● Disconnected", sel.Text())

	frag, err = r.Connection(true)
	require.NoError(t, err)
	assert.True(t, parse(t, frag).Find(".status-indicator").HasClass("connected"))
}

func TestLocaleSwap(t *testing.T) {
	loc := render.NewLocalizer(nil)
	r, err := New(loc)
	require.NoError(t, err)

	zh, err := locale.Load("zh-CN")
	require.NoError(t, err)
	loc.Set(zh)

	frag, err := r.Connection(true)
	require.NoError(t, err)
	assert.Contains(t, string(frag), zh.Labels.Connected)
}
