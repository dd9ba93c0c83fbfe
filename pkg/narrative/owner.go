package narrative

import "github.com/grovetools/teamwatch/pkg/models"

// GroupTasksByOwner joins tasks to team members at display time.
//
// A task belongs to its explicit owner. Without one, a subject equal to a
// member name makes that member the owner; some producers encode ownership
// that way. Tasks that resolve to nobody on the team are returned in the
// unassigned bucket, in their original order.
func GroupTasksByOwner(members []models.Agent, tasks []models.Task) (map[string][]models.Task, []models.Task) {
	names := memberSet(members)

	byOwner := make(map[string][]models.Task)
	var unassigned []models.Task

	for _, task := range tasks {
		owner := resolveOwner(names, task)
		if owner == "" {
			unassigned = append(unassigned, task)
			continue
		}
		byOwner[owner] = append(byOwner[owner], task)
	}

	return byOwner, unassigned
}

// TaskOwner returns the member a task resolves to, or "" when it belongs
// to nobody on the team.
func TaskOwner(members []models.Agent, task models.Task) string {
	return resolveOwner(memberSet(members), task)
}

func memberSet(members []models.Agent) map[string]bool {
	names := make(map[string]bool, len(members))
	for _, m := range members {
		names[m.Name] = true
	}
	return names
}

func resolveOwner(names map[string]bool, task models.Task) string {
	owner := task.Owner
	if owner == "" && task.Subject != "" && names[task.Subject] {
		owner = task.Subject
	}
	if !names[owner] {
		return ""
	}
	return owner
}

// PickActiveTask returns the first in-progress task, else the first task,
// else nil.
func PickActiveTask(tasks []models.Task) *models.Task {
	for i := range tasks {
		if tasks[i].Status == models.TaskInProgress {
			return &tasks[i]
		}
	}
	if len(tasks) == 0 {
		return nil
	}
	return &tasks[0]
}
