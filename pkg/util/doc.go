// Package util provides shared helpers for safe file-path validation and
// text truncation used across contentspec packages.
//
//   - SafeFilePath / SafeFilePathAllowAbsolute reject path-traversal attempts
//   - TruncateBody caps content echoed back in errors and logs
package util
