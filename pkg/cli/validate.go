package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/getmockd/contentspec/pkg/util"
	"github.com/getmockd/contentspec/pkg/validation"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// stdinArg reads content from standard input.
const stdinArg = "-"

// FileResult is the validation outcome for one content file.
type FileResult struct {
	File     string                `json:"file"`
	Valid    bool                  `json:"valid"`
	Error    string                `json:"error,omitempty"`
	Findings []*validation.Finding `json:"findings,omitempty"`
}

// ValidateOutput is the JSON output of the validate command.
type ValidateOutput struct {
	Version  string       `json:"version"`
	Location string       `json:"location"`
	Suffix   string       `json:"suffix"`
	Path     string       `json:"path"`
	Files    []FileResult `json:"files"`
	Valid    bool         `json:"valid"`
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var suffix string

	cmd := &cobra.Command{
		Use:   "validate --suffix <suffix> <file>...",
		Short: "Validate content JSON files against a response schema",
		Long: `Validate one or more JSON files against the response schema of the path ending
in "/<suffix>.json". Every violation of every file is reported. Use "-" to read
from standard input.`,
		Example: `  # Validate an index page against the latest specification
  contentspec validate --suffix index out/home/index.json

  # Validate against version v1
  contentspec validate -V v1 --suffix detail out/news/*/detail.json

  # Validate generated content from a pipe
  render-page | contentspec validate --suffix index -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.openSpec(cmd.Context())
			if err != nil {
				return err
			}
			validator, err := spec.SchemaValidator(suffix)
			if err != nil {
				return err
			}

			out := ValidateOutput{
				Version:  spec.Version(),
				Location: spec.String(),
				Suffix:   validator.Suffix(),
				Path:     validator.Path(),
				Valid:    true,
			}
			failed := 0
			for _, arg := range args {
				res := validateFile(opts.fs, cmd.InOrStdin(), validator, arg)
				if !res.Valid {
					out.Valid = false
					failed++
				}
				opts.logger.Debug("content validated", "file", res.File, "suffix", suffix, "valid", res.Valid)
				out.Files = append(out.Files, res)
			}

			if err := opts.printResult(cmd, out, func(w io.Writer) {
				for _, f := range out.Files {
					if f.Valid {
						fmt.Fprintf(w, "%s: valid\n", f.File)
						continue
					}
					if len(f.Findings) == 0 {
						fmt.Fprintf(w, "%s: %s\n", f.File, f.Error)
						continue
					}
					fmt.Fprintf(w, "%s: %d finding(s)\n", f.File, len(f.Findings))
					for _, finding := range f.Findings {
						fmt.Fprintf(w, "  %s\n", finding.Error())
					}
				}
			}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) invalid for suffix %q", failed, len(args), suffix)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&suffix, "suffix", "s", "", "Content suffix selecting the response schema (required)")
	_ = cmd.MarkFlagRequired("suffix")
	return cmd
}

// validateFile reads one content file and validates it. Read failures and
// malformed JSON are reported in the result.
func validateFile(fs afero.Fs, stdin io.Reader, validator *validation.SchemaValidator, name string) FileResult {
	res := FileResult{File: name}

	data, err := readContent(fs, stdin, name)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	result, err := validator.Check(string(data))
	if err != nil {
		res.Error = err.Error()
		var malformed *validation.MalformedJSONError
		if errors.As(err, &malformed) {
			res.Error = "unable to parse JSON: " + malformed.Cause.Error()
		}
		return res
	}
	res.Valid = result.Valid
	res.Findings = result.Findings
	return res
}

func readContent(fs afero.Fs, stdin io.Reader, name string) ([]byte, error) {
	if name == stdinArg {
		return io.ReadAll(stdin)
	}
	path, ok := util.SafeFilePathAllowAbsolute(name)
	if !ok {
		return nil, fmt.Errorf("refusing to read %q: path escapes the working directory", name)
	}
	return afero.ReadFile(fs, path)
}
