package cli

import (
	"fmt"
	"io"

	"github.com/getmockd/contentspec/pkg/cli/internal/output"
	"github.com/getmockd/contentspec/pkg/cliconfig"
	"github.com/spf13/cobra"
)

// ConfigValue is one resolved configuration value and where it came from.
type ConfigValue struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

// ConfigOutput is the JSON output of the config command.
type ConfigOutput struct {
	Values      []ConfigValue `json:"values"`
	LocalFiles  []string      `json:"localSearchPaths"`
	GlobalFiles []string      `json:"globalSearchPaths"`
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show every configuration value after merging defaults, the global and local
config files, CONTENTSPEC_* environment variables and flags, with the source of
each value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := ConfigOutput{
				Values:      configValues(opts.cfg),
				LocalFiles:  cliconfig.GetLocalConfigSearchPaths(),
				GlobalFiles: cliconfig.GetGlobalConfigSearchPaths(),
			}
			return opts.printResult(cmd, out, func(w io.Writer) {
				tw := output.Table(w)
				fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
				for _, v := range out.Values {
					fmt.Fprintf(tw, "%s\t%v\t%s\n", v.Key, v.Value, v.Source)
				}
				_ = tw.Flush()
			})
		},
	}
}

func configValues(cfg *cliconfig.CLIConfig) []ConfigValue {
	source := func(key string) string {
		if s, ok := cfg.Sources[key]; ok {
			return s
		}
		return cliconfig.SourceDefault
	}
	return []ConfigValue{
		{Key: "specDir", Value: cfg.SpecDir, Source: source("specDir")},
		{Key: "pattern", Value: cfg.Pattern, Source: source("pattern")},
		{Key: "glob", Value: cfg.Glob, Source: source("glob")},
		{Key: "version", Value: cfg.Version, Source: source("version")},
		{Key: "logLevel", Value: cfg.LogLevel, Source: source("logLevel")},
		{Key: "logFormat", Value: cfg.LogFormat, Source: source("logFormat")},
		{Key: "logFile", Value: cfg.LogFile, Source: source("logFile")},
		{Key: "json", Value: cfg.JSON, Source: source("json")},
	}
}
