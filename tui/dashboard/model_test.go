package dashboard

import (
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/grovetools/teamwatch/tui/keymap"
	"github.com/grovetools/teamwatch/tui/theme"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu      sync.Mutex
	started int
	polls   int
	visible []bool
}

func (e *fakeEngine) Start() {
	e.mu.Lock()
	e.started++
	e.mu.Unlock()
}

func (e *fakeEngine) SetVisible(v bool) {
	e.mu.Lock()
	e.visible = append(e.visible, v)
	e.mu.Unlock()
}

func (e *fakeEngine) PollNow() {
	e.mu.Lock()
	e.polls++
	e.mu.Unlock()
}

func newModel(t *testing.T) (*Model, *fakeEngine) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	eng := &fakeEngine{}
	m := New(eng, keymap.Default(), theme.New("terminal"), nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, eng
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitStartsEngine(t *testing.T) {
	m, eng := newModel(t)
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 1, eng.started)
}

func TestRegionsAppearInView(t *testing.T) {
	m, _ := newModel(t)

	m.Update(regionMsg{render.RegionConnection, "● Connected"})
	m.Update(regionMsg{render.RegionLastUpdate, "Last updated: 10:00:00"})
	m.Update(regionMsg{render.RegionProcessCount, "2"})
	m.Update(regionMsg{render.RegionTeamCount, "1"})
	m.Update(regionMsg{render.RegionProcesses, "PID: 4242"})
	m.Update(regionMsg{render.RegionTeams, "checkout-squad"})

	view := m.View()
	assert.Contains(t, view, "● Connected")
	assert.Contains(t, view, "Last updated: 10:00:00")
	assert.Contains(t, view, "Agent processes (2 running)")
	assert.Contains(t, view, "Active teams (1)")
	assert.Contains(t, view, "PID: 4242")
	assert.Contains(t, view, "checkout-squad")
}

func TestLatestRegionWriteWins(t *testing.T) {
	m, _ := newModel(t)

	m.Update(regionMsg{render.RegionConnection, "● Connected"})
	m.Update(regionMsg{render.RegionConnection, "○ Disconnected"})

	view := m.View()
	assert.Contains(t, view, "○ Disconnected")
	assert.NotContains(t, view, "● Connected")
}

func TestFocusDrivesVisibility(t *testing.T) {
	m, eng := newModel(t)

	m.Update(tea.BlurMsg{})
	m.Update(tea.FocusMsg{})

	assert.Equal(t, []bool{false, true}, eng.visible)
}

func TestKeys(t *testing.T) {
	m, eng := newModel(t)

	_, cmd := m.Update(runeKey('r'))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, eng.polls)

	_, cmd = m.Update(runeKey('?'))
	assert.Nil(t, cmd)
	assert.True(t, m.help.ShowAll)

	_, cmd = m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewBeforeResize(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m := New(&fakeEngine{}, keymap.Default(), nil, nil)
	m.Update(regionMsg{render.RegionTeams, "squad"})
	assert.Contains(t, m.View(), "squad")
}

func TestSectionTitle(t *testing.T) {
	tests := []struct {
		format, badge, want string
	}{
		{"Active teams (%d)", "3", "Active teams (3)"},
		{"Active teams (%d)", "", "Active teams (-)"},
		{"Teams", "3", "Teams 3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sectionTitle(tt.format, tt.badge))
	}
}

func TestPageBuffersUntilAttached(t *testing.T) {
	p := NewPage()
	p.SetRegion(render.RegionTeams, "a")
	p.SetRegion(render.RegionTeamCount, "1")

	got := make(chan tea.Msg, 4)
	p.attach(func(msg tea.Msg) { got <- msg })

	for _, want := range []regionMsg{{render.RegionTeams, "a"}, {render.RegionTeamCount, "1"}} {
		select {
		case msg := <-got:
			assert.Equal(t, want, msg)
		case <-time.After(time.Second):
			t.Fatal("buffered write not delivered")
		}
	}

	p.SetRegion(render.RegionConnection, "up")
	assert.Equal(t, regionMsg{render.RegionConnection, "up"}, <-got)
}

func TestPageWritesNeverBlock(t *testing.T) {
	p := NewPage()
	defer p.Close()

	// A send that nobody reads, like prog.Send before Run.
	got := make(chan tea.Msg)
	p.attach(func(msg tea.Msg) { got <- msg })

	written := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.SetRegion(render.RegionLastUpdate, render.Fragment(fmt.Sprint(i)))
		}
		close(written)
	}()

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("SetRegion blocked on the event loop")
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, regionMsg{render.RegionLastUpdate, render.Fragment(fmt.Sprint(i))}, <-got)
	}
}

func TestPageCloseStopsForwarding(t *testing.T) {
	p := NewPage()
	got := make(chan tea.Msg, 4)
	p.attach(func(msg tea.Msg) { got <- msg })
	p.Close()

	p.SetRegion(render.RegionTeams, "late")
	select {
	case msg := <-got:
		t.Fatalf("unexpected forward after Close: %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
