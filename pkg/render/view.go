package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/teamwatch/pkg/locale"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/narrative"
)

// ProcessView is a process with its derived display strings.
type ProcessView struct {
	PID         int
	Command     string
	Team        string
	PIDLabel    string
	UptimeLabel string
}

// TaskView is a task with its derived display strings.
type TaskView struct {
	ID          string
	Subject     string
	Status      models.TaskStatus
	StatusLabel string
	StatusClass string
	Owner       string
	OwnerLabel  string
}

// AgentView is a team member with derived liveness and status lines.
type AgentView struct {
	Name        string
	AgentType   string
	Emoji       string
	Cwd         string
	CurrentTask string
	Status      models.AgentStatus
	StatusLabel string
	StatusClass string
	InMotion    bool
	MotionLabel string
	LastActive  string
	Dialogues   []string
	DeskLabel   string
	Tasks       []TaskView
}

// DeskView is the unassigned pseudo-agent block of a team.
type DeskView struct {
	Title string
	Line  string
	Tasks []TaskView
}

// TeamView is a team composed from its members, their tasks and the
// unassigned desk.
type TeamView struct {
	Name           string
	CreatedLabel   string
	MembersLabel   string
	TasksLabel     string
	OfficeLabel    string
	NoMembersLabel string
	NoTasksLabel   string
	Busy           int
	Members        []AgentView
	Unassigned     *DeskView
	Tasks          []TaskView
}

// BuildProcesses derives process views.
func BuildProcesses(procs []models.ProcessInfo, now time.Time, loc *locale.Table) []ProcessView {
	views := make([]ProcessView, 0, len(procs))
	for _, p := range procs {
		views = append(views, ProcessView{
			PID:         p.PID,
			Command:     p.Command,
			Team:        p.Team,
			PIDLabel:    fmt.Sprintf(loc.Labels.PID, p.PID),
			UptimeLabel: fmt.Sprintf(loc.Labels.Uptime, narrative.Uptime(p.StartedAt, now, loc)),
		})
	}
	return views
}

// BuildTeams derives team views. Tasks are joined to members here, at
// display time; the snapshot itself is never rewritten.
func BuildTeams(teams []models.Team, now time.Time, loc *locale.Table) []TeamView {
	views := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, buildTeam(t, now, loc))
	}
	return views
}

func buildTeam(team models.Team, now time.Time, loc *locale.Table) TeamView {
	byOwner, unassigned := narrative.GroupTasksByOwner(team.Members, team.Tasks)
	busy := narrative.BusyCount(team.Members, now)

	view := TeamView{
		Name:           team.Name,
		MembersLabel:   fmt.Sprintf(loc.Labels.Members, len(team.Members)),
		TasksLabel:     fmt.Sprintf(loc.Labels.Tasks, len(team.Tasks)),
		OfficeLabel:    fmt.Sprintf(loc.Labels.Office, len(team.Members), busy),
		NoMembersLabel: loc.Labels.NoMembers,
		NoTasksLabel:   loc.Labels.NoTasks,
		Busy:           busy,
		Members:        make([]AgentView, 0, len(team.Members)),
		Tasks:          make([]TaskView, 0, len(team.Tasks)),
	}
	if narrative.ValidTimestamp(team.CreatedAt) {
		view.CreatedLabel = fmt.Sprintf(loc.Labels.Created, team.CreatedAt.Format(loc.DateTimeFormat))
	}

	for _, m := range team.Members {
		view.Members = append(view.Members, buildAgent(m, byOwner[m.Name], now, loc))
	}

	if len(unassigned) > 0 {
		view.Unassigned = &DeskView{
			Title: fmt.Sprintf(loc.Labels.Broadcast, len(unassigned)),
			Line:  fmt.Sprintf(loc.Labels.BroadcastLine, len(unassigned)),
			Tasks: buildTasks(unassigned, "", loc),
		}
	}

	for _, task := range team.Tasks {
		view.Tasks = append(view.Tasks, buildTask(task, narrative.TaskOwner(team.Members, task), loc))
	}

	return view
}

func buildAgent(agent models.Agent, tasks []models.Task, now time.Time, loc *locale.Table) AgentView {
	moving := narrative.InMotion(agent, now)
	motion := loc.Labels.Resting
	if moving {
		motion = loc.Labels.InMotion
	}

	return AgentView{
		Name:        agent.Name,
		AgentType:   agent.AgentType,
		Emoji:       narrative.RoleEmoji(agent),
		Cwd:         agent.Cwd,
		CurrentTask: agent.CurrentTask,
		Status:      agent.Status,
		StatusLabel: loc.AgentStatusLabel(agent.Status),
		StatusClass: StatusClass(string(agent.Status)),
		InMotion:    moving,
		MotionLabel: motion,
		LastActive:  narrative.RelativeTime(agent.LastActiveTime, now, loc),
		Dialogues:   narrative.Dialogues(agent, tasks, now, loc),
		DeskLabel:   loc.Labels.MyTasks,
		Tasks:       buildTasks(tasks, agent.Name, loc),
	}
}

func buildTasks(tasks []models.Task, owner string, loc *locale.Table) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, buildTask(t, owner, loc))
	}
	return views
}

func buildTask(task models.Task, owner string, loc *locale.Table) TaskView {
	// The producer's owner is shown even when it is not on the team.
	label := task.Owner
	if label == "" {
		label = owner
	}
	if label == "" {
		label = loc.Labels.Unassigned
	}
	return TaskView{
		ID:          task.ID,
		Subject:     task.Subject,
		Status:      task.Status,
		StatusLabel: loc.TaskStatusLabel(task.Status),
		StatusClass: StatusClass(string(task.Status)),
		Owner:       owner,
		OwnerLabel:  fmt.Sprintf(loc.Labels.Owner, label),
	}
}

// StatusClass lower-cases a raw status and keeps only [a-z0-9_-], so it is
// safe to place in a class attribute. An empty result becomes "unknown".
func StatusClass(status string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(status) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
