package narrative

import (
	"time"

	"github.com/grovetools/teamwatch/pkg/models"
)

// MotionWindow is how recent an observable signal must be for an agent to
// count as in motion.
const MotionWindow = 180 * time.Second

// InMotion classifies an agent as live. Status alone is too coarse since an
// agent can sit in "working" for a long idle stretch, so any recent
// timestamp or a working agent carrying activity payloads qualifies.
func InMotion(agent models.Agent, now time.Time) bool {
	if recent(agent.LastActiveTime, now) || recent(agent.LastMessageTime, now) {
		return true
	}
	if agent.Status != models.AgentWorking {
		return false
	}
	return agent.LastToolUse != "" || agent.LastThinking != "" || agent.MessageSummary != ""
}

// BusyCount returns how many members are in motion.
func BusyCount(members []models.Agent, now time.Time) int {
	n := 0
	for _, m := range members {
		if InMotion(m, now) {
			n++
		}
	}
	return n
}

func recent(t, now time.Time) bool {
	if !ValidTimestamp(t) {
		return false
	}
	return now.Sub(t) <= MotionWindow
}
