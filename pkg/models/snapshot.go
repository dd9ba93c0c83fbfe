// Package models defines the snapshot document served by the agent team
// monitor at /api/state.
package models

import "time"

// Snapshot is one complete poll response. Each poll replaces the previous
// snapshot entirely; there are no partial updates.
type Snapshot struct {
	UpdatedAt time.Time     `json:"updated_at" jsonschema:"description=Time the producer assembled this snapshot"`
	Processes []ProcessInfo `json:"processes" jsonschema:"description=Detected agent processes"`
	Teams     []Team        `json:"teams" jsonschema:"description=Active agent teams"`
}

// ProcessInfo describes one running agent process.
type ProcessInfo struct {
	PID       int       `json:"pid" jsonschema:"required"`
	StartedAt time.Time `json:"started_at" jsonschema:"required"`
	Command   string    `json:"command,omitempty"`
	Team      string    `json:"team,omitempty"`
}

// Team is a named group of agents and the tasks they share.
type Team struct {
	Name      string    `json:"name" jsonschema:"required"`
	CreatedAt time.Time `json:"created_at"`
	Members   []Agent   `json:"members"`
	Tasks     []Task    `json:"tasks"`
}

// Agent is a member of a team. Every field apart from the identity is
// optional and may be empty.
type Agent struct {
	Name            string      `json:"name" jsonschema:"required"`
	AgentType       string      `json:"agent_type"`
	Status          AgentStatus `json:"status"`
	CurrentTask     string      `json:"current_task,omitempty"`
	Cwd             string      `json:"cwd,omitempty"`
	LastActiveTime  time.Time   `json:"last_active_time,omitempty"`
	LastMessageTime time.Time   `json:"last_message_time,omitempty"`
	LastToolUse     string      `json:"last_tool_use,omitempty"`
	LastToolDetail  string      `json:"last_tool_detail,omitempty"`
	LastThinking    string      `json:"last_thinking,omitempty"`
	MessageSummary  string      `json:"message_summary,omitempty"`
	OfficeDialogues []string    `json:"office_dialogues,omitempty"`
	RoleEmoji       string      `json:"role_emoji,omitempty"`
}

// Task is a unit of work on a team's task list. Owner is optional; the
// association with an agent is resolved at display time.
type Task struct {
	ID      string     `json:"id" jsonschema:"required"`
	Subject string     `json:"subject"`
	Status  TaskStatus `json:"status"`
	Owner   string     `json:"owner,omitempty"`
}

// Normalize replaces nil collections with empty ones so that a producer
// sending null and one sending [] describe the same state.
func (s *Snapshot) Normalize() {
	if s.Processes == nil {
		s.Processes = []ProcessInfo{}
	}
	if s.Teams == nil {
		s.Teams = []Team{}
	}
	for i := range s.Teams {
		if s.Teams[i].Members == nil {
			s.Teams[i].Members = []Agent{}
		}
		if s.Teams[i].Tasks == nil {
			s.Teams[i].Tasks = []Task{}
		}
	}
}
