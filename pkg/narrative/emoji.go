package narrative

import (
	"strings"

	"github.com/grovetools/teamwatch/pkg/models"
)

// DefaultRoleEmoji is used when no rule matches.
const DefaultRoleEmoji = "🧑"

type emojiRule struct {
	substring string
	emoji     string
}

// roleEmojiRules are evaluated top to bottom against the lower-cased agent name.
var roleEmojiRules = []emojiRule{
	{"lead", "🧑‍💼"},
	{"api", "👨‍💻"},
	{"admin", "🧑‍🔧"},
	{"vue", "🧑‍🎨"},
	{"uniapp", "🧑‍📱"},
}

// RoleEmoji returns the agent's persona emoji: the producer's choice when
// set, else the first rule whose substring occurs in the name.
func RoleEmoji(agent models.Agent) string {
	if agent.RoleEmoji != "" {
		return agent.RoleEmoji
	}
	return RoleEmojiForName(agent.Name)
}

// RoleEmojiForName applies the name rules only.
func RoleEmojiForName(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range roleEmojiRules {
		if strings.Contains(lower, rule.substring) {
			return rule.emoji
		}
	}
	return DefaultRoleEmoji
}
