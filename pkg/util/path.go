package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative file path and reports whether it is safe to use.
// Absolute paths, empty paths and paths that still climb above the working
// directory after cleaning are rejected.
func SafeFilePath(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", false
	}
	return cleanWithoutTraversal(p)
}

// SafeFilePathAllowAbsolute is SafeFilePath but accepts absolute paths.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	return cleanWithoutTraversal(p)
}

func cleanWithoutTraversal(p string) (string, bool) {
	cleaned := filepath.Clean(p)
	// backslashes are separators on Windows and must not smuggle ".." elsewhere
	for _, seg := range strings.FieldsFunc(cleaned, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return "", false
		}
	}
	return cleaned, true
}
