package validation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/getmockd/contentspec/pkg/logging"
	"github.com/spf13/afero"
)

const (
	// DefaultResourcePath is the directory scanned by NewSpecVersions.
	DefaultResourcePath = "site-api-spec"
	// DefaultFilenamePattern matches site-api.yaml (version "") and site-api-<version>.yaml.
	DefaultFilenamePattern = `^site-api(?:-(\w+))?\.yaml$`
)

// DefaultFilenameRegexp is DefaultFilenamePattern compiled.
var DefaultFilenameRegexp = regexp.MustCompile(DefaultFilenamePattern)

// VersionsOption configures DiscoverVersions.
type VersionsOption func(*versionsConfig)

type versionsConfig struct {
	compare func(a, b string) int
	logger  *slog.Logger
	specOpt []SpecOption
}

// WithVersionCompare sets the ordering of version tokens. compare returns a
// negative number when a < b, zero when equal and a positive number when a > b.
// The default is plain string ordering.
func WithVersionCompare(compare func(a, b string) int) VersionsOption {
	return func(c *versionsConfig) {
		if compare != nil {
			c.compare = compare
		}
	}
}

// WithVersionsLogger sets the logger used during discovery and handed to every
// Spec opened through Get.
func WithVersionsLogger(logger *slog.Logger) VersionsOption {
	return func(c *versionsConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSpecOptions adds options applied to every Spec opened through Get.
func WithSpecOptions(opts ...SpecOption) VersionsOption {
	return func(c *versionsConfig) {
		c.specOpt = append(c.specOpt, opts...)
	}
}

// SpecVersions is the set of specification versions found by discovery.
// It is immutable and safe for concurrent use.
type SpecVersions struct {
	versions  []string
	locations map[string]Location
	specOpt   []SpecOption
}

// NewSpecVersions discovers versions in DefaultResourcePath on fs using DefaultFilenamePattern.
func NewSpecVersions(fs afero.Fs, opts ...VersionsOption) (*SpecVersions, error) {
	return DiscoverVersions(NewFSScanner(fs), DefaultResourcePath, DefaultFilenameRegexp, opts...)
}

// DiscoverVersions scans path and records every resource whose name fully
// matches pattern. The version token is the text of the pattern's last
// capturing group, empty when the group did not participate.
//
// Resources are processed in the order the scanner returns them; when two
// yield the same version the later one wins. It fails with a
// *NoSpecsFoundError if nothing matches.
func DiscoverVersions(scanner Scanner, path string, pattern *regexp.Regexp, opts ...VersionsOption) (*SpecVersions, error) {
	cfg := &versionsConfig{compare: strings.Compare, logger: logging.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	resources, err := scanner.Scan(path)
	if err != nil {
		return nil, err
	}

	full := regexp.MustCompile(`^(?:` + pattern.String() + `)$`)
	locations := make(map[string]Location)
	for _, res := range resources {
		m := full.FindStringSubmatch(res.Name)
		if m == nil {
			continue
		}
		version := ""
		if len(m) > 1 {
			version = m[len(m)-1]
		}
		if prev, ok := locations[version]; ok {
			cfg.logger.Warn("version declared by more than one resource, keeping the later",
				"version", version,
				"previous", prev.String(),
				"location", res.Location.String())
		}
		cfg.logger.Debug("specification resource found",
			"name", res.Name,
			"version", version,
			"location", res.Location.String())
		locations[version] = res.Location
	}
	if len(locations) == 0 {
		return nil, &NoSpecsFoundError{Path: path, Pattern: pattern.String()}
	}

	versions := make([]string, 0, len(locations))
	for v := range locations {
		versions = append(versions, v)
	}
	slices.SortFunc(versions, cfg.compare)

	return &SpecVersions{
		versions:  versions,
		locations: locations,
		specOpt:   append([]SpecOption{WithSpecLogger(cfg.logger)}, cfg.specOpt...),
	}, nil
}

// AllVersions returns the known version tokens in ascending order.
func (sv *SpecVersions) AllVersions() []string {
	return slices.Clone(sv.versions)
}

// LatestVersion returns the greatest version token.
func (sv *SpecVersions) LatestVersion() string {
	return sv.versions[len(sv.versions)-1]
}

// Location returns where version is stored.
func (sv *SpecVersions) Location(version string) (Location, bool) {
	loc, ok := sv.locations[version]
	return loc, ok
}

// Get opens the specification for version. Every call loads the document
// again; callers that want reuse keep the returned Spec.
func (sv *SpecVersions) Get(ctx context.Context, version string) (*Spec, error) {
	loc, ok := sv.locations[version]
	if !ok {
		return nil, &UnknownVersionError{Version: version}
	}
	return OpenSpec(ctx, loc, version, sv.specOpt...)
}

// GetLatest opens the specification for LatestVersion.
func (sv *SpecVersions) GetLatest(ctx context.Context) (*Spec, error) {
	return sv.Get(ctx, sv.LatestVersion())
}

// NumericVersionCompare orders version tokens by comparing runs of digits as
// numbers and everything else as text, so "v9" < "v10". The empty version sorts first.
func NumericVersionCompare(a, b string) int {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)
		if c := compareChunk(ca, cb); c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// nextChunk splits off the leading run of digits or non-digits.
func nextChunk(s string) (chunk, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareChunk(a, b string) int {
	if !isDigit(a[0]) || !isDigit(b[0]) {
		return strings.Compare(a, b)
	}
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (sv *SpecVersions) String() string {
	return fmt.Sprintf("SpecVersions%v", sv.versions)
}
