package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	t.Setenv(EnvTheme, "")

	tests := []struct {
		configured string
		want       string
	}{
		{"", "kanagawa"},
		{"gruvbox", "gruvbox"},
		{"Gruvbox Light", "gruvbox"},
		{"ansi", "terminal"},
		{"terminal", "terminal"},
		{"solarized", "kanagawa"},
	}
	for _, tt := range tests {
		t.Run(tt.configured, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveName(tt.configured))
		})
	}
}

func TestResolveNameEnvWins(t *testing.T) {
	t.Setenv(EnvTheme, "terminal")
	assert.Equal(t, "terminal", ResolveName("gruvbox"))

	t.Setenv(EnvTheme, "nope")
	assert.Equal(t, "gruvbox", ResolveName("gruvbox"))
}

func TestStatusStyleFallback(t *testing.T) {
	th := New("terminal")
	assert.Equal(t, "terminal", th.Name)
	assert.Equal(t, th.Muted, th.StatusStyle(th.AgentStatus, "blocked"))
	assert.Equal(t, th.AgentStatus["working"], th.StatusStyle(th.AgentStatus, "working"))
}

func TestIconSet(t *testing.T) {
	t.Setenv(EnvIcons, "")
	assert.Equal(t, asciiIcons, IconSet(""))
	assert.Equal(t, nerdIcons, IconSet("nerd"))

	t.Setenv(EnvIcons, "ascii")
	assert.Equal(t, asciiIcons, IconSet("nerd"))
}
