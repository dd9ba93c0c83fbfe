package logging

// Config is the "logging" extension of teamwatch.yml.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	// TEAMWATCH_LOG_LEVEL overrides it.
	Level string `yaml:"level"`

	// ReportCaller includes file, line and function in the output.
	// TEAMWATCH_LOG_CALLER=true enables it.
	ReportCaller bool `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path defaults to the state directory's teamwatch.log.
	Path string `yaml:"path"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
