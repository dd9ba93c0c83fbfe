package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	// active is set by Configure; nil means "read teamwatch.yml on first use".
	active *Config
)

// Configure fixes the logging configuration for every logger created
// afterwards and drops cached loggers so they pick it up.
func Configure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	active = &cfg
	loggers = make(map[string]*logrus.Entry)
}

// ConfigFrom extracts the logging extension from a loaded configuration.
func ConfigFrom(cfg *config.Config) Config {
	var logCfg Config
	if cfg == nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if active != nil {
		logCfg = *active
	} else if cfg, err := config.LoadDefault(); err == nil {
		logCfg = ConfigFrom(cfg)
	}

	entry := build(logCfg).WithField("component", component)
	loggers[component] = entry
	return entry
}

func build(logCfg Config) *logrus.Logger {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("TEAMWATCH_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("TEAMWATCH_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{
			Config:  logCfg.Format,
			Colors:  interactive,
			Profile: termenv.EnvColorProfile(),
		})
	}

	var writers []io.Writer

	if logCfg.File.Enabled {
		path := logCfg.File.Path
		if path == "" {
			path = paths.LogFilePath()
		}
		if file, err := openLogFile(expandPath(path)); err != nil {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		} else {
			writers = append(writers, file)
		}
	}

	stderrMode := logCfg.Format.StructuredToStderr
	if stderrMode == "" {
		stderrMode = "auto"
	}

	toStderr := false
	switch stderrMode {
	case "always":
		toStderr = true
	case "never":
		toStderr = false
	default:
		// With a file sink, interactive terminals only see structured logs
		// at debug level.
		toStderr = len(writers) == 0 || level >= logrus.DebugLevel || !interactive
	}

	if toStderr {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
