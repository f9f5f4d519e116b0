package cliconfig

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getmockd/contentspec/pkg/logging"
	"github.com/getmockd/contentspec/pkg/util"
)

// Validate checks that the configuration can be used to discover specifications.
func (c *CLIConfig) Validate() error {
	if _, ok := util.SafeFilePathAllowAbsolute(c.SpecDir); !ok {
		return fmt.Errorf("specDir %q is not a usable directory path", c.SpecDir)
	}
	if _, err := c.FilenameRegexp(); err != nil {
		return err
	}
	if c.Glob != "" && !doublestar.ValidatePattern(c.Glob) {
		return fmt.Errorf("glob %q is not a valid pattern", c.Glob)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	if c.LogFile != "" {
		if _, ok := util.SafeFilePathAllowAbsolute(c.LogFile); !ok {
			return fmt.Errorf("logFile %q is not a usable file path", c.LogFile)
		}
	}
	return nil
}

// FilenameRegexp compiles Pattern. The pattern needs a capturing group for the version.
func (c *CLIConfig) FilenameRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q does not compile: %w", c.Pattern, err)
	}
	if re.NumSubexp() == 0 {
		return nil, fmt.Errorf("pattern %q has no capturing group for the version", c.Pattern)
	}
	return re, nil
}
