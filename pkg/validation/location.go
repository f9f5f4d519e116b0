package validation

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Location identifies where a specification document comes from.
// Implementations must be safe to open more than once.
type Location interface {
	// Open returns a reader over the raw document text.
	Open() (io.ReadCloser, error)

	// String identifies the location in messages and logs.
	String() string
}

// FileLocation is a specification stored as a file on an afero filesystem.
type FileLocation struct {
	Fs   afero.Fs
	Path string
}

// NewFileLocation returns the location of path on fs.
func NewFileLocation(fs afero.Fs, path string) *FileLocation {
	return &FileLocation{Fs: fs, Path: path}
}

// Open opens the file.
func (l *FileLocation) Open() (io.ReadCloser, error) {
	info, err := l.Fs.Stat(l.Path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", l.Path)
	}
	return l.Fs.Open(l.Path)
}

func (l *FileLocation) String() string {
	return l.Path
}

// BytesLocation is a specification held in memory.
type BytesLocation struct {
	Name string
	Data []byte
}

// NewBytesLocation returns an in-memory location named name.
func NewBytesLocation(name string, data []byte) *BytesLocation {
	return &BytesLocation{Name: name, Data: data}
}

// Open returns a reader over a copy-free view of the data.
func (l *BytesLocation) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.Data)), nil
}

func (l *BytesLocation) String() string {
	return l.Name
}

// readLocation reads the whole document behind loc.
func readLocation(loc Location) ([]byte, error) {
	r, err := loc.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, loc, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, loc, err)
	}
	return data, nil
}
