package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/getmockd/contentspec/pkg/cli/internal/output"
	"github.com/getmockd/contentspec/pkg/cliconfig"
	"github.com/getmockd/contentspec/pkg/logging"
	"github.com/getmockd/contentspec/pkg/validation"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// unversionedLabel selects and displays the document without a version token.
const unversionedLabel = "-"

// rootOptions holds the persistent flags and the state resolved from them
// before a subcommand runs.
type rootOptions struct {
	specDir   string
	pattern   string
	glob      string
	version   string
	logLevel  string
	logFormat string
	logFile   string
	json      bool

	fs     afero.Fs
	loader *cliconfig.Loader

	cfg      *cliconfig.CLIConfig
	logger   *slog.Logger
	closeLog func() error
}

func newDefaultOptions() *rootOptions {
	return &rootOptions{fs: afero.NewOsFs(), loader: cliconfig.NewLoader()}
}

// NewRootCmd builds the contentspec command tree over the OS filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newDefaultOptions())
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contentspec",
		Short: "contentspec validates content JSON against versioned OpenAPI specifications",
		Long: `contentspec discovers versioned OpenAPI 3 specification documents in a directory,
checks them for structural conformance and validates content JSON files against
the response schema declared for a content suffix.

Configuration can be provided via flags, environment variables (CONTENTSPEC_*),
a local .contentspecrc.yaml or a global contentspec/config.yaml in the user
config directory.`,
		// No Run function here means 'contentspec' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.specDir, "spec-dir", cliconfig.DefaultSpecDir, "Directory scanned for specification documents")
	pf.StringVar(&opts.pattern, "pattern", cliconfig.DefaultPattern, "File name pattern; its last capturing group is the version")
	pf.StringVar(&opts.glob, "glob", cliconfig.DefaultGlob, "Glob selecting candidate files inside the spec directory")
	pf.StringVarP(&opts.version, "spec-version", "V", "", `Specification version (default: latest, "-" for the unversioned document)`)
	pf.StringVar(&opts.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
	pf.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file")
	pf.BoolVar(&opts.json, "json", false, "Output command results in JSON format")

	cmd.AddCommand(
		newVersionsCmd(opts),
		newCheckCmd(opts),
		newSuffixesCmd(opts),
		newValidateCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	opts := newDefaultOptions()
	err := newRootCmd(opts).Execute()
	if cerr := opts.teardown(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves the configuration (flags over env over files over defaults)
// and builds the logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := o.loader.Load()
	if err != nil {
		return err
	}
	o.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg

	handler := logging.NewHandler(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	if cfg.LogFile != "" {
		f, err := o.fs.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		handler = logging.NewMultiHandler(handler, logging.NewHandler(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: logging.ParseFormat(cfg.LogFormat),
			Output: f,
		}))
		o.closeLog = f.Close
	}
	// run correlates the entries of one invocation in a shared log file
	o.logger = slog.New(handler).With("run", uuid.New().String())
	o.logger.Debug("configuration resolved", "specDir", cfg.SpecDir, "pattern", cfg.Pattern, "version", cfg.Version)
	return nil
}

// teardown closes the log file, if any. It runs after the command whether or
// not the command failed.
func (o *rootOptions) teardown() error {
	if o.closeLog == nil {
		return nil
	}
	closeLog := o.closeLog
	o.closeLog = nil
	return closeLog()
}

// applyFlags merges the flags given on the command line over cfg.
func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *cliconfig.CLIConfig) {
	flags := &cliconfig.CLIConfig{SetFields: map[string]bool{}}
	strs := []struct {
		name string
		from *string
		to   *string
	}{
		{"spec-dir", &o.specDir, &flags.SpecDir},
		{"pattern", &o.pattern, &flags.Pattern},
		{"glob", &o.glob, &flags.Glob},
		{"spec-version", &o.version, &flags.Version},
		{"log-level", &o.logLevel, &flags.LogLevel},
		{"log-format", &o.logFormat, &flags.LogFormat},
		{"log-file", &o.logFile, &flags.LogFile},
	}
	for _, s := range strs {
		if cmd.Flags().Changed(s.name) {
			*s.to = *s.from
		}
	}
	if cmd.Flags().Changed("json") {
		flags.JSON = o.json
		flags.SetFields["json"] = true
	}
	cliconfig.MergeConfig(cfg, flags, cliconfig.SourceFlag)
}

// discover finds the specification versions described by the configuration.
func (o *rootOptions) discover() (*validation.SpecVersions, error) {
	re, err := o.cfg.FilenameRegexp()
	if err != nil {
		return nil, err
	}
	scanner := &validation.FSScanner{Fs: o.fs, Glob: o.cfg.Glob}
	return validation.DiscoverVersions(scanner, o.cfg.SpecDir, re,
		validation.WithVersionCompare(validation.NumericVersionCompare),
		validation.WithVersionsLogger(o.logger))
}

// openSpec opens the configured version, or the latest one.
func (o *rootOptions) openSpec(ctx context.Context) (*validation.Spec, error) {
	versions, err := o.discover()
	if err != nil {
		return nil, err
	}
	return versions.Get(ctx, selectedVersion(o.cfg.Version, versions))
}

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. textFn is called only in text mode.
func (o *rootOptions) printResult(cmd *cobra.Command, data any, textFn func(w io.Writer)) error {
	jsonOut := o.json
	if o.cfg != nil {
		jsonOut = o.cfg.JSON
	}
	if jsonOut {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn(cmd.OutOrStdout())
	return nil
}

// displayVersion renders the empty version token.
func displayVersion(v string) string {
	if v == "" {
		return unversionedLabel
	}
	return v
}
