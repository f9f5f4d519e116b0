package cliconfig

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "contentspec"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".contentspecrc.yaml", ".contentspecrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches dir for .contentspecrc.yaml or .contentspecrc.yml.
// Returns empty string if not found.
func FindLocalConfig(fs afero.Fs, dir string) string {
	return findFirst(fs, dir, LocalConfigFileNames)
}

// FindGlobalConfig searches configDir/contentspec for config.yaml or config.yml.
// Returns empty string if not found.
func FindGlobalConfig(fs afero.Fs, configDir string) string {
	if configDir == "" {
		return ""
	}
	return findFirst(fs, filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames)
}

func findFirst(fs afero.Fs, dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := fs.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// GetLocalConfigSearchPaths returns the paths that will be searched for local config.
func GetLocalConfigSearchPaths() []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	paths := make([]string, len(LocalConfigFileNames))
	for i, name := range LocalConfigFileNames {
		paths[i] = filepath.Join(cwd, name)
	}
	return paths
}

// GetGlobalConfigSearchPaths returns the paths that will be searched for global config.
func GetGlobalConfigSearchPaths() []string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	paths := make([]string, len(GlobalConfigFileNames))
	for i, name := range GlobalConfigFileNames {
		paths[i] = filepath.Join(configDir, GlobalConfigDir, name)
	}
	return paths
}

// LoadConfigFile loads a CLIConfig from a YAML file.
// Unknown keys are rejected so that typos do not silently fall back to defaults.
func LoadConfigFile(fs afero.Fs, path string) (*CLIConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError(path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, newConfigError(path, err)
	}
	cfg.SetFields = make(map[string]bool)
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		m := root.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			cfg.SetFields[m.Content[i].Value] = true
		}
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

// yamlLinePrefix matches the "line N: " prefix yaml.v3 puts on its messages.
var yamlLinePrefix = regexp.MustCompile(`^(?:yaml: )?line (\d+): `)

func newConfigError(path string, err error) *ConfigError {
	msg := err.Error()
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		msg = te.Errors[0]
	}
	ce := &ConfigError{Path: path, Message: msg}
	if m := yamlLinePrefix.FindStringSubmatch(msg); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
		ce.Message = msg[len(m[0]):]
	}
	return ce
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// Loader locates and merges configuration layers.
type Loader struct {
	Fs afero.Fs
	// WorkDir is searched for the local config file.
	WorkDir string
	// ConfigDir is the user config directory holding contentspec/config.yaml.
	ConfigDir string
}

// NewLoader returns a loader over the OS filesystem rooted at the current
// directory and the user config directory.
func NewLoader() *Loader {
	wd, _ := os.Getwd()
	configDir, _ := os.UserConfigDir()
	return &Loader{Fs: afero.NewOsFs(), WorkDir: wd, ConfigDir: configDir}
}

// Load loads configuration from all sources and merges them.
// Precedence: env > local config > global config > defaults.
// Flags are applied by the caller on top of the result.
func (l *Loader) Load() (*CLIConfig, error) {
	// Start with defaults
	cfg := NewDefault()

	// Load global config
	if globalPath := FindGlobalConfig(l.Fs, l.ConfigDir); globalPath != "" {
		globalCfg, err := LoadConfigFile(l.Fs, globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	// Load local config
	if localPath := FindLocalConfig(l.Fs, l.WorkDir); localPath != "" {
		localCfg, err := LoadConfigFile(l.Fs, localPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, localCfg, SourceLocal)
	}

	// Load environment variables
	LoadEnvConfig(cfg)

	return cfg, nil
}
