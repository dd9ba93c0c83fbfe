package models

import "strings"

// AgentStatus is the producer's status for an agent. The set is open-ended:
// values outside the known constants are kept verbatim.
type AgentStatus string

const (
	AgentWorking   AgentStatus = "working"
	AgentIdle      AgentStatus = "idle"
	AgentCompleted AgentStatus = "completed"
)

// IsKnown reports whether s is one of the statuses the dashboard has labels for.
func (s AgentStatus) IsKnown() bool {
	switch s {
	case AgentWorking, AgentIdle, AgentCompleted:
		return true
	}
	return false
}

// Fallback is the display literal used when no label exists for s.
func (s AgentStatus) Fallback() string {
	return strings.ToUpper(string(s))
}

// TaskStatus is the producer's status for a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// IsKnown reports whether s is one of the statuses the dashboard has labels for.
func (s TaskStatus) IsKnown() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Fallback is the display literal used when no label exists for s.
func (s TaskStatus) Fallback() string {
	return strings.ToUpper(string(s))
}
