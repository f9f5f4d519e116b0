// Package cliconfig provides configuration types and loading for the contentspec CLI.
package cliconfig

// CLIConfig represents the complete configuration for the contentspec CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.contentspecrc.yaml in current directory)
// 4. Global config file (~/.config/contentspec/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Discovery settings
	SpecDir string `yaml:"specDir" json:"specDir"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Glob    string `yaml:"glob" json:"glob"`

	// Version selects the specification version; empty means latest.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields holds the keys explicitly present in a loaded config file,
	// so that an explicit false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)
