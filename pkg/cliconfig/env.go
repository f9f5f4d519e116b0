package cliconfig

import (
	"os"
	"strings"
)

// Environment variable names
const (
	EnvSpecDir   = "CONTENTSPEC_SPEC_DIR"
	EnvPattern   = "CONTENTSPEC_PATTERN"
	EnvGlob      = "CONTENTSPEC_GLOB"
	EnvVersion   = "CONTENTSPEC_VERSION"
	EnvLogLevel  = "CONTENTSPEC_LOG_LEVEL"
	EnvLogFormat = "CONTENTSPEC_LOG_FORMAT"
	EnvLogFile   = "CONTENTSPEC_LOG_FILE"
	EnvJSON      = "CONTENTSPEC_JSON"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	strs := []struct {
		env    string
		key    string
		target *string
	}{
		{EnvSpecDir, "specDir", &cfg.SpecDir},
		{EnvPattern, "pattern", &cfg.Pattern},
		{EnvGlob, "glob", &cfg.Glob},
		{EnvVersion, "version", &cfg.Version},
		{EnvLogLevel, "logLevel", &cfg.LogLevel},
		{EnvLogFormat, "logFormat", &cfg.LogFormat},
		{EnvLogFile, "logFile", &cfg.LogFile},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.target = v
			cfg.Sources[s.key] = SourceEnv
		}
	}

	// CONTENTSPEC_JSON
	if v := os.Getenv(EnvJSON); v != "" {
		cfg.JSON = parseBool(v)
		cfg.Sources["json"] = SourceEnv
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
