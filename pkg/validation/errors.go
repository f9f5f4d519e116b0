package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrResourceNotFound indicates a specification location could not be opened or read.
	ErrResourceNotFound = errors.New("specification resource not found")

	// ErrSpecInvalid indicates a specification failed to parse or failed OAS3 conformance.
	ErrSpecInvalid = errors.New("specification invalid")

	// ErrSuffixNotFound indicates no path matches a suffix, or the matched path has no response schema.
	ErrSuffixNotFound = errors.New("suffix not found")

	// ErrUnknownVersion indicates a requested version has no known specification.
	ErrUnknownVersion = errors.New("unknown specification version")

	// ErrNoSpecsFound indicates discovery found no specification resources.
	ErrNoSpecsFound = errors.New("no specifications found")

	// ErrMalformedJSON indicates the content passed for validation is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrSchemaViolation indicates valid JSON that does not conform to the response schema.
	ErrSchemaViolation = errors.New("schema violation")
)

// ErrorCode constants for machine-readable finding identification
const (
	ErrCodeRequired     = "required"
	ErrCodeType         = "type"
	ErrCodeMinLength    = "min_length"
	ErrCodeMaxLength    = "max_length"
	ErrCodePattern      = "pattern"
	ErrCodeFormat       = "format"
	ErrCodeMin          = "min"
	ErrCodeMax          = "max"
	ErrCodeExclusiveMin = "exclusive_min"
	ErrCodeExclusiveMax = "exclusive_max"
	ErrCodeMinItems     = "min_items"
	ErrCodeMaxItems     = "max_items"
	ErrCodeUniqueItems  = "unique_items"
	ErrCodeEnum         = "enum"
	ErrCodeSchema       = "schema"
	ErrCodeUnknownField = "unknown_field"
	ErrCodeSpec         = "spec"
)

// keywordCodes maps JSON Schema keywords to finding codes.
var keywordCodes = map[string]string{
	"required":             ErrCodeRequired,
	"type":                 ErrCodeType,
	"minLength":            ErrCodeMinLength,
	"maxLength":            ErrCodeMaxLength,
	"pattern":              ErrCodePattern,
	"format":               ErrCodeFormat,
	"minimum":              ErrCodeMin,
	"maximum":              ErrCodeMax,
	"exclusiveMinimum":     ErrCodeExclusiveMin,
	"exclusiveMaximum":     ErrCodeExclusiveMax,
	"minItems":             ErrCodeMinItems,
	"maxItems":             ErrCodeMaxItems,
	"uniqueItems":          ErrCodeUniqueItems,
	"enum":                 ErrCodeEnum,
	"const":                ErrCodeEnum,
	"nullable":             ErrCodeType,
	"additionalProperties": ErrCodeUnknownField,
	"properties":           ErrCodeUnknownField,
}

// codeForKeyword returns the finding code for a schema keyword.
func codeForKeyword(keyword string) string {
	if code, ok := keywordCodes[keyword]; ok {
		return code
	}
	return ErrCodeSchema
}

// Finding is one discrete problem found during a single validation pass.
type Finding struct {
	// Path locates the problem: a JSON path into the validated content ("$.items[0].title")
	// or a location inside the specification ("paths./a.json").
	Path string `json:"path,omitempty"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`
}

// Error implements the error interface
func (f *Finding) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return f.Message
}

// Result contains the outcome of a validation pass.
type Result struct {
	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Findings contains every problem found, in discovery order
	Findings []*Finding `json:"findings,omitempty"`
}

// AddFinding adds a finding to the result
func (r *Result) AddFinding(f *Finding) {
	r.Valid = false
	r.Findings = append(r.Findings, f)
}

// HasFindings returns true if there are any findings
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// Merge combines another result into this one
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Findings = append(r.Findings, other.Findings...)
}

// Error renders all findings, one per line.
func (r *Result) Error() string {
	return joinFindings(r.Findings)
}

func joinFindings(findings []*Finding) string {
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.Error()
	}
	return strings.Join(lines, "\n")
}

// SpecInvalidError reports a specification that failed to parse or failed OAS3 conformance.
// Findings holds every structural problem; it is empty for parse failures.
type SpecInvalidError struct {
	Location string
	Summary  string
	Findings []*Finding
	Cause    error
}

func (e *SpecInvalidError) Error() string {
	msg := "specification is invalid: " + e.Location
	if e.Summary != "" {
		msg += " - " + e.Summary
	}
	if e.Cause != nil && len(e.Findings) == 0 {
		msg += ": " + e.Cause.Error()
	}
	if len(e.Findings) > 0 {
		msg += "\n" + joinFindings(e.Findings)
	}
	return msg
}

func (e *SpecInvalidError) Unwrap() error { return e.Cause }

func (e *SpecInvalidError) Is(target error) bool { return target == ErrSpecInvalid }

// SuffixNotFoundError reports a suffix that no path key matches, or whose
// matched path has nothing at Address.
type SuffixNotFoundError struct {
	Suffix  string
	Address string
}

func (e *SuffixNotFoundError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("no matching JSON schema definition at: %s, suffix: %s", e.Address, e.Suffix)
	}
	return "no matching path definition found for suffix: " + e.Suffix
}

func (e *SuffixNotFoundError) Is(target error) bool { return target == ErrSuffixNotFound }

// MalformedJSONError reports content that could not be parsed as JSON.
type MalformedJSONError struct {
	// Excerpt is the offending text, truncated for safe logging.
	Excerpt string
	Cause   error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("unable to parse JSON: %v\n%s", e.Cause, e.Excerpt)
}

func (e *MalformedJSONError) Unwrap() error { return e.Cause }

func (e *MalformedJSONError) Is(target error) bool { return target == ErrMalformedJSON }

// ContentValidationError reports JSON content that violates the response schema of a suffix.
type ContentValidationError struct {
	Suffix   string
	Findings []*Finding
}

func (e *ContentValidationError) Error() string {
	return fmt.Sprintf("JSON invalid for suffix %q:\n%s", e.Suffix, joinFindings(e.Findings))
}

func (e *ContentValidationError) Is(target error) bool { return target == ErrSchemaViolation }

// UnknownVersionError reports a version with no known specification.
type UnknownVersionError struct {
	Version string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("invalid version: %q", e.Version)
}

func (e *UnknownVersionError) Is(target error) bool { return target == ErrUnknownVersion }

// NoSpecsFoundError reports a discovery run that matched no resources.
type NoSpecsFoundError struct {
	Path    string
	Pattern string
}

func (e *NoSpecsFoundError) Error() string {
	return fmt.Sprintf("no specification found at '%s' with pattern: %s", e.Path, e.Pattern)
}

func (e *NoSpecsFoundError) Is(target error) bool { return target == ErrNoSpecsFound }
