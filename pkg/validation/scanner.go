package validation

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultScanGlob lists the files directly inside the scanned directory.
const DefaultScanGlob = "*"

// Resource is one candidate specification document found by a Scanner.
type Resource struct {
	// Name is the base file name matched against the version pattern.
	Name string
	// Location is where the document can be read from.
	Location Location
}

// Scanner lists the specification resources available under a path.
type Scanner interface {
	Scan(path string) ([]Resource, error)
}

// FSScanner finds resources by glob on an afero filesystem.
type FSScanner struct {
	Fs afero.Fs
	// Glob is a doublestar pattern relative to the scanned directory.
	// Empty means DefaultScanGlob; use "**/*" to descend into subdirectories.
	Glob string
}

// NewFSScanner returns a scanner over fs using DefaultScanGlob.
func NewFSScanner(fs afero.Fs) *FSScanner {
	return &FSScanner{Fs: fs, Glob: DefaultScanGlob}
}

// Scan returns the files under dir matching the glob, sorted by relative path.
// A missing directory yields no resources.
func (s *FSScanner) Scan(dir string) ([]Resource, error) {
	pattern := s.Glob
	if pattern == "" {
		pattern = DefaultScanGlob
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %q", pattern)
	}

	dir = filepath.Clean(dir)
	fsys := s.Fs
	if dir != "." {
		fsys = afero.NewBasePathFs(s.Fs, dir)
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fsys), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	resources := make([]Resource, 0, len(matches))
	for _, rel := range matches {
		resources = append(resources, Resource{
			Name:     path.Base(rel),
			Location: NewFileLocation(s.Fs, filepath.Join(dir, filepath.FromSlash(rel))),
		})
	}
	return resources, nil
}

// StaticScanner returns a fixed list of resources regardless of the path.
type StaticScanner []Resource

// Scan returns the list.
func (s StaticScanner) Scan(string) ([]Resource, error) {
	return append([]Resource(nil), s...), nil
}
