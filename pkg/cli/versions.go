package cli

import (
	"fmt"
	"io"

	"github.com/getmockd/contentspec/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

// VersionEntry is one discovered specification version.
type VersionEntry struct {
	Version  string `json:"version"`
	Location string `json:"location"`
}

// VersionsOutput is the JSON output of the versions command.
type VersionsOutput struct {
	Versions []VersionEntry `json:"versions"`
	Latest   string         `json:"latest"`
}

func newVersionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the discovered specification versions",
		Long: `List every specification document found in the spec directory whose file name
matches the pattern, ordered by version. The unversioned document is shown as "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			versions, err := opts.discover()
			if err != nil {
				return err
			}

			out := VersionsOutput{Latest: versions.LatestVersion()}
			for _, v := range versions.AllVersions() {
				loc, _ := versions.Location(v)
				out.Versions = append(out.Versions, VersionEntry{Version: v, Location: loc.String()})
			}

			return opts.printResult(cmd, out, func(w io.Writer) {
				tw := output.Table(w)
				fmt.Fprintln(tw, "VERSION\tLOCATION\t")
				for _, e := range out.Versions {
					latest := ""
					if e.Version == out.Latest {
						latest = "(latest)"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", displayVersion(e.Version), e.Location, latest)
				}
				_ = tw.Flush()
			})
		},
	}
}
