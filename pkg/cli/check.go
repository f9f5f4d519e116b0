package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/getmockd/contentspec/pkg/validation"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentChecks bounds how many documents check --all loads at once.
const maxConcurrentChecks = 4

// CheckResult reports whether one specification version loaded cleanly.
type CheckResult struct {
	Version  string                `json:"version"`
	Location string                `json:"location"`
	Valid    bool                  `json:"valid"`
	Error    string                `json:"error,omitempty"`
	Findings []*validation.Finding `json:"findings,omitempty"`
}

// CheckOutput is the JSON output of the check command.
type CheckOutput struct {
	Results []CheckResult `json:"results"`
	Valid   bool          `json:"valid"`
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check specification documents for structural conformance",
		Long: `Load a specification document and report every structural finding.
Without --all the configured version (or the latest) is checked.`,
		Example: `  # Check the latest version
  contentspec check

  # Check every discovered version
  contentspec check --all

  # Check one version from another directory
  contentspec check --spec-dir ./specs -V v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			versions, err := opts.discover()
			if err != nil {
				return err
			}

			selected := []string{selectedVersion(opts.cfg.Version, versions)}
			if all {
				selected = versions.AllVersions()
			}

			results, err := checkVersions(cmd.Context(), versions, selected)
			if err != nil {
				return err
			}

			out := CheckOutput{Results: results, Valid: true}
			failed := 0
			for _, r := range results {
				if !r.Valid {
					out.Valid = false
					failed++
				}
			}

			if err := opts.printResult(cmd, out, func(w io.Writer) {
				for _, r := range results {
					if r.Valid {
						fmt.Fprintf(w, "ok       %s\t%s\n", displayVersion(r.Version), r.Location)
						continue
					}
					fmt.Fprintf(w, "invalid  %s\t%s\n", displayVersion(r.Version), r.Location)
					fmt.Fprintf(w, "  %s\n", r.Error)
				}
			}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d specification(s) invalid", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Check every discovered version")
	return cmd
}

// selectedVersion maps the configured version to a version token; empty selects the latest.
func selectedVersion(configured string, versions *validation.SpecVersions) string {
	switch configured {
	case "":
		return versions.LatestVersion()
	case unversionedLabel:
		return ""
	default:
		return configured
	}
}

// checkVersions opens every selected version concurrently. Load failures are
// recorded in the results; only an unknown version fails the whole check.
func checkVersions(ctx context.Context, versions *validation.SpecVersions, selected []string) ([]CheckResult, error) {
	results := make([]CheckResult, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, v := range selected {
		i, v := i, v
		g.Go(func() error {
			loc, ok := versions.Location(v)
			if !ok {
				return &validation.UnknownVersionError{Version: v}
			}
			results[i] = CheckResult{Version: v, Location: loc.String(), Valid: true}

			if _, err := versions.Get(gctx, v); err != nil {
				results[i].Valid = false
				results[i].Error = err.Error()
				var invalid *validation.SpecInvalidError
				if errors.As(err, &invalid) {
					results[i].Findings = invalid.Findings
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
