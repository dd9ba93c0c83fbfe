package narrative

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/teamwatch/pkg/locale"
	"github.com/grovetools/teamwatch/pkg/models"
)

// MaxDialogues caps the number of status lines shown per agent.
const MaxDialogues = 3

// Rune limits applied to free text before it is placed in a line.
const (
	currentTaskLimit = 60
	taskSubjectLimit = 52
	toolDetailLimit  = 45
	thinkingLimit    = 90
	summaryLimit     = 90
	explicitLimit    = 100
)

// dialogueInput is what every rule sees.
type dialogueInput struct {
	agent models.Agent
	tasks []models.Task
	loc   *locale.Table
}

type dialogueRule struct {
	name string
	line func(in dialogueInput) (string, bool)
}

// dialogueRules run top to bottom; each contributes at most one line.
var dialogueRules = []dialogueRule{
	{name: "task", line: taskLine},
	{name: "tool", line: toolLine},
	{name: "thinking", line: thinkingLine},
	{name: "message", line: messageLine},
}

// Dialogues returns up to MaxDialogues status lines for an agent.
//
// Producer-supplied office_dialogues win outright. Otherwise lines are
// synthesized from the rule table, with a status-keyed fallback when no rule
// fires, followed by a "last active" line when there is room.
func Dialogues(agent models.Agent, tasks []models.Task, now time.Time, loc *locale.Table) []string {
	if len(agent.OfficeDialogues) > 0 {
		return explicitDialogues(agent.OfficeDialogues)
	}

	in := dialogueInput{agent: agent, tasks: tasks, loc: loc}

	var lines []string
	for _, rule := range dialogueRules {
		if line, ok := rule.line(in); ok {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, fallbackLine(agent.Status, loc))
	}

	if rel := RelativeTime(agent.LastActiveTime, now, loc); rel != "" {
		lines = append(lines, fmt.Sprintf(loc.Dialogue.LastActive, rel))
	}

	if len(lines) > MaxDialogues {
		lines = lines[:MaxDialogues]
	}
	return lines
}

// NormalizeText collapses whitespace runs to single spaces and truncates to
// maxRunes, appending "..." when anything was cut.
func NormalizeText(text string, maxRunes int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if len(runes) <= maxRunes {
		return normalized
	}
	return string(runes[:maxRunes]) + "..."
}

func explicitDialogues(raw []string) []string {
	lines := make([]string, 0, MaxDialogues)
	for _, d := range raw {
		text := NormalizeText(d, explicitLimit)
		if text == "" {
			continue
		}
		lines = append(lines, text)
		if len(lines) == MaxDialogues {
			break
		}
	}
	return lines
}

func taskLine(in dialogueInput) (string, bool) {
	current := in.agent.CurrentTask
	if current != "" && current != in.agent.Name {
		return fmt.Sprintf(in.loc.Dialogue.CurrentTask, NormalizeText(current, currentTaskLimit)), true
	}
	if task := PickActiveTask(in.tasks); task != nil {
		return fmt.Sprintf(in.loc.Dialogue.ActiveTask, task.ID, NormalizeText(task.Subject, taskSubjectLimit)), true
	}
	return "", false
}

func toolLine(in dialogueInput) (string, bool) {
	if in.agent.LastToolUse == "" {
		return "", false
	}
	detail := ""
	if in.agent.LastToolDetail != "" {
		detail = fmt.Sprintf(in.loc.Dialogue.ToolDetail, NormalizeText(in.agent.LastToolDetail, toolDetailLimit))
	}
	return fmt.Sprintf(in.loc.Dialogue.ToolUse, in.agent.LastToolUse, detail), true
}

func thinkingLine(in dialogueInput) (string, bool) {
	if in.agent.LastThinking == "" {
		return "", false
	}
	return fmt.Sprintf(in.loc.Dialogue.Thinking, NormalizeText(in.agent.LastThinking, thinkingLimit)), true
}

func messageLine(in dialogueInput) (string, bool) {
	if in.agent.MessageSummary == "" {
		return "", false
	}
	return fmt.Sprintf(in.loc.Dialogue.Message, NormalizeText(in.agent.MessageSummary, summaryLimit)), true
}

func fallbackLine(status models.AgentStatus, loc *locale.Table) string {
	switch status {
	case models.AgentWorking:
		return loc.Dialogue.FallbackWorking
	case models.AgentCompleted:
		return loc.Dialogue.FallbackCompleted
	default:
		return loc.Dialogue.FallbackIdle
	}
}
