package validation

import "strings"

const (
	contentPathKey           = `"{contentPath}`
	normalizedContentPathKey = `"/{contentPath}`
)

// NormalizeContentPath inserts a slash before every quoted key that starts with
// the {contentPath} placeholder.
//
// OAS3 path parameters cannot contain slashes, so documents declare keys like
// "{contentPath}/index.json" although the expanded path always starts with "/".
// Keys already written as "/{contentPath}..." are left untouched.
func NormalizeContentPath(text string) string {
	return strings.ReplaceAll(text, contentPathKey, normalizedContentPathKey)
}
