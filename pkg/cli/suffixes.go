package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SuffixesOutput is the JSON output of the suffixes command.
type SuffixesOutput struct {
	Version  string   `json:"version"`
	Location string   `json:"location"`
	Suffixes []string `json:"suffixes"`
}

func newSuffixesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suffixes",
		Short: "List the content suffixes declared by a specification",
		Long: `List the suffixes of every path ending in ".json" in declaration order.
A suffix is what "validate --suffix" expects: "/{contentPath}/index.json" declares "index".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := opts.openSpec(cmd.Context())
			if err != nil {
				return err
			}

			out := SuffixesOutput{
				Version:  spec.Version(),
				Location: spec.String(),
				Suffixes: spec.Suffixes(),
			}
			if out.Suffixes == nil {
				out.Suffixes = []string{}
			}
			return opts.printResult(cmd, out, func(w io.Writer) {
				for _, s := range out.Suffixes {
					fmt.Fprintln(w, s)
				}
			})
		},
	}
}
