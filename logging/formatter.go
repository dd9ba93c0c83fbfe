package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

// TextFormatter is a custom logrus formatter.
type TextFormatter struct {
	Config FormatConfig

	// Colors enables level and component colouring at Profile's depth.
	Colors  bool
	Profile termenv.Profile
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	b.WriteString(f.level(entry.Level, fmt.Sprintf("[%s]", strings.ToUpper(levelStr))))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		b.WriteString(fmt.Sprintf(" [%s]", f.accent(fmt.Sprintf("%v", component))))
	}

	if entry.HasCaller() {
		fileName := filepath.Base(entry.Caller.File)
		funcName := filepath.Base(entry.Caller.Function)
		b.WriteString(fmt.Sprintf(" [%s:%d %s]", fileName, entry.Caller.Line, funcName))
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", key, entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func (f *TextFormatter) profile() termenv.Profile {
	if !f.Colors {
		return termenv.Ascii
	}
	return f.Profile
}

func (f *TextFormatter) level(level logrus.Level, s string) string {
	p := f.profile()
	if p == termenv.Ascii {
		return s
	}
	var color string
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		color = "8"
	case logrus.WarnLevel:
		color = "3"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		color = "1"
	default:
		color = "4"
	}
	return termenv.String(s).Foreground(p.Color(color)).Bold().String()
}

func (f *TextFormatter) accent(s string) string {
	p := f.profile()
	if p == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(p.Color("5")).String()
}
