// Package locale provides the display strings used by the dashboard
// renderers. Tables are plain lookups; swapping the table changes the
// language without touching any renderer logic.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/models"
	"github.com/grovetools/teamwatch/pkg/paths"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultName is the locale used when none is configured.
const DefaultName = "en"

// Table holds every user-visible string for one locale.
type Table struct {
	Name string `yaml:"name"`

	// TimeFormat and DateTimeFormat are Go reference layouts.
	TimeFormat     string `yaml:"time_format"`
	DateTimeFormat string `yaml:"datetime_format"`

	AgentStatus map[string]string `yaml:"agent_status"`
	TaskStatus  map[string]string `yaml:"task_status"`

	Labels   Labels   `yaml:"labels"`
	Units    Units    `yaml:"units"`
	Dialogue Dialogue `yaml:"dialogue"`
}

// Labels are static UI strings. Entries containing verbs are fmt formats.
type Labels struct {
	Connected      string `yaml:"connected"`
	Disconnected   string `yaml:"disconnected"`
	LastUpdate     string `yaml:"last_update"`
	NoProcesses    string `yaml:"no_processes"`
	NoTeams        string `yaml:"no_teams"`
	NoMembers      string `yaml:"no_members"`
	NoTasks        string `yaml:"no_tasks"`
	PID            string `yaml:"pid"`
	Uptime         string `yaml:"uptime"`
	Created        string `yaml:"created"`
	Members        string `yaml:"members"`
	Tasks          string `yaml:"tasks"`
	Office         string `yaml:"office"`
	MyTasks        string `yaml:"my_tasks"`
	Owner          string `yaml:"owner"`
	Unassigned     string `yaml:"unassigned"`
	Broadcast      string `yaml:"broadcast"`
	BroadcastLine  string `yaml:"broadcast_line"`
	InMotion       string `yaml:"in_motion"`
	Resting        string `yaml:"resting"`
	ProcessesTitle string `yaml:"processes_title"`
	TeamsTitle     string `yaml:"teams_title"`
	Help           string `yaml:"help"`
}

// Units are fmt formats for durations.
type Units struct {
	SecondsAgo     string `yaml:"seconds_ago"`
	MinutesAgo     string `yaml:"minutes_ago"`
	HoursAgo       string `yaml:"hours_ago"`
	DaysAgo        string `yaml:"days_ago"`
	HoursMinutes   string `yaml:"hours_minutes"`
	MinutesSeconds string `yaml:"minutes_seconds"`
	Seconds        string `yaml:"seconds"`
}

// Dialogue are fmt formats for synthesized agent status lines.
type Dialogue struct {
	CurrentTask       string `yaml:"current_task"`
	ActiveTask        string `yaml:"active_task"`
	ToolUse           string `yaml:"tool_use"`
	ToolDetail        string `yaml:"tool_detail"`
	Thinking          string `yaml:"thinking"`
	Message           string `yaml:"message"`
	FallbackWorking   string `yaml:"fallback_working"`
	FallbackCompleted string `yaml:"fallback_completed"`
	FallbackIdle      string `yaml:"fallback_idle"`
	LastActive        string `yaml:"last_active"`
}

// AgentStatusLabel returns the display label for an agent status, falling
// back to the upper-cased raw value.
func (t *Table) AgentStatusLabel(s models.AgentStatus) string {
	if label, ok := t.AgentStatus[string(s)]; ok && label != "" {
		return label
	}
	return s.Fallback()
}

// TaskStatusLabel returns the display label for a task status, falling back
// to the upper-cased raw value.
func (t *Table) TaskStatusLabel(s models.TaskStatus) string {
	if label, ok := t.TaskStatus[string(s)]; ok && label != "" {
		return label
	}
	return s.Fallback()
}

// Available lists the embedded locale names plus any tables in the user
// locale directory.
func Available() []string {
	seen := make(map[string]bool)
	if entries, err := localeFS.ReadDir("locales"); err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
		}
	}
	if dir := paths.LocaleDir(); dir != "" {
		if entries, err := os.ReadDir(dir); err == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
					seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file backing a user locale, or "" when name is embedded
// or unknown. Embedded locales shadow user files of the same name.
func Path(name string) string {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return ""
	}
	if _, err := fs.Stat(localeFS, "locales/"+name+".yaml"); err == nil {
		return ""
	}
	dir := paths.LocaleDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Default returns the embedded English table. It panics if the embedded
// asset is broken, which is a build defect.
func Default() *Table {
	t, err := Load(DefaultName)
	if err != nil {
		panic(fmt.Sprintf("embedded locale %q is invalid: %v", DefaultName, err))
	}
	return t
}

// Load returns a locale by name, embedded first, then from the user locale
// directory. Any key missing from a non-default locale is taken from the
// default table.
func Load(name string) (*Table, error) {
	data, err := localeFS.ReadFile("locales/" + name + ".yaml")
	if err != nil {
		path := Path(name)
		if path == "" {
			return nil, errors.LocaleNotFound(name)
		}
		t, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if t.Name == DefaultName {
			t.Name = name
		}
		return t, nil
	}
	if name == DefaultName {
		var t Table
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse locale").
				WithDetail("locale", name)
		}
		return &t, nil
	}
	return overlay(data, name)
}

// LoadFile reads a locale table from disk, layered over the default table.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.LocaleNotFound(path).WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read locale file").
			WithDetail("path", path)
	}
	return overlay(data, path)
}

// overlay decodes data on top of a fresh copy of the default table.
// yaml.v3 leaves absent keys untouched and merges into existing maps.
func overlay(data []byte, source string) (*Table, error) {
	base := Default()
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse locale").
			WithDetail("locale", source)
	}
	return base, nil
}
