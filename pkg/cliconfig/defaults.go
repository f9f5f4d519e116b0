package cliconfig

import "github.com/getmockd/contentspec/pkg/validation"

// DefaultSpecDir is the directory scanned for specification documents.
const DefaultSpecDir = validation.DefaultResourcePath

// DefaultPattern matches specification file names; its last group is the version.
const DefaultPattern = validation.DefaultFilenamePattern

// DefaultGlob selects the candidate files inside DefaultSpecDir.
const DefaultGlob = validation.DefaultScanGlob

// DefaultLogLevel keeps CLI output free of informational logs.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		SpecDir:   DefaultSpecDir,
		Pattern:   DefaultPattern,
		Glob:      DefaultGlob,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}

	// Mark all as default source
	for _, key := range []string{"specDir", "pattern", "glob", "logLevel", "logFormat"} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
