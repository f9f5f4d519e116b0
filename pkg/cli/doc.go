// Package cli provides the command-line interface for contentspec.
//
// The cli package implements the commands for working with versioned content
// specifications:
//   - versions: List the discovered specification versions
//   - check: Report structural findings for one or every version
//   - suffixes: List the content suffixes a specification declares
//   - validate: Validate content JSON files against the schema of a suffix
//   - config: Display effective configuration with sources
//   - version: Show contentspec version
//
// Every command accepts --json; in JSON mode only the JSON document is written
// to stdout and logs go to stderr (and --log-file when set).
//
// Configuration is resolved by pkg/cliconfig before a command runs, with flags
// taking precedence over environment variables and config files.
package cli
