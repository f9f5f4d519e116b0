package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "suffix without path",
			err:  &SuffixNotFoundError{Suffix: "gallery"},
			want: "no matching path definition found for suffix: gallery",
		},
		{
			name: "suffix without schema",
			err:  &SuffixNotFoundError{Suffix: "sitemap", Address: responseSchemaAddress},
			want: "no matching JSON schema definition at: /get/responses/200/content/application~1json/schema, suffix: sitemap",
		},
		{
			name: "unknown version",
			err:  &UnknownVersionError{Version: "v999"},
			want: `invalid version: "v999"`,
		},
		{
			name: "no specs",
			err:  &NoSpecsFoundError{Path: "site-api-spec", Pattern: DefaultFilenamePattern},
			want: `no specification found at 'site-api-spec' with pattern: ^site-api(?:-(\w+))?\.yaml$`,
		},
		{
			name: "malformed json",
			err:  &MalformedJSONError{Excerpt: "{not json", Cause: errors.New("invalid character 'n'")},
			want: "unable to parse JSON: invalid character 'n'\n{not json",
		},
		{
			name: "content validation",
			err: &ContentValidationError{Suffix: "index", Findings: []*Finding{
				{Path: "$.title", Code: ErrCodeRequired, Message: `property "title" is missing`},
				{Path: "$.teasers[0].id", Code: ErrCodeMin, Message: "number must be at least 1"},
			}},
			want: "JSON invalid for suffix \"index\":\n$.title: property \"title\" is missing\n$.teasers[0].id: number must be at least 1",
		},
		{
			name: "spec invalid with findings",
			err: &SpecInvalidError{Location: "site-api.yaml", Summary: "2 structural finding(s)", Findings: []*Finding{
				{Path: "info", Code: ErrCodeSpec, Message: "value of title must be a non-empty string"},
				{Path: "paths", Code: ErrCodeRequired, Message: "must be an object"},
			}},
			want: "specification is invalid: site-api.yaml - 2 structural finding(s)\ninfo: value of title must be a non-empty string\npaths: must be an object",
		},
		{
			name: "spec invalid with cause",
			err:  &SpecInvalidError{Location: "site-api.yaml", Summary: "unable to parse", Cause: errors.New("yaml: line 2: did not find expected node content")},
			want: "specification is invalid: site-api.yaml - unable to parse: yaml: line 2: did not find expected node content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrors_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "spec invalid", err: &SpecInvalidError{}, sentinel: ErrSpecInvalid},
		{name: "suffix not found", err: &SuffixNotFoundError{}, sentinel: ErrSuffixNotFound},
		{name: "malformed json", err: &MalformedJSONError{}, sentinel: ErrMalformedJSON},
		{name: "schema violation", err: &ContentValidationError{}, sentinel: ErrSchemaViolation},
		{name: "unknown version", err: &UnknownVersionError{}, sentinel: ErrUnknownVersion},
		{name: "no specs", err: &NoSpecsFoundError{}, sentinel: ErrNoSpecsFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("while loading: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					assert.NotErrorIs(t, wrapped, other.sentinel)
				}
			}
		})
	}
}

func TestSpecInvalidError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &SpecInvalidError{Location: "x.yaml", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, &MalformedJSONError{Cause: cause}, cause)
}

func TestResult(t *testing.T) {
	t.Parallel()

	r := &Result{Valid: true}
	assert.False(t, r.HasFindings())

	r.AddFinding(&Finding{Path: "$.a", Code: ErrCodeType, Message: "value must be a string"})
	assert.False(t, r.Valid)
	assert.True(t, r.HasFindings())

	other := &Result{Valid: true}
	other.AddFinding(&Finding{Message: "no path"})
	r.Merge(other)
	r.Merge(nil)

	assert.Len(t, r.Findings, 2)
	assert.Equal(t, "$.a: value must be a string\nno path", r.Error())

	valid := &Result{Valid: true}
	valid.Merge(&Result{Valid: true})
	assert.True(t, valid.Valid)
}

func TestCodeForKeyword(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrCodeRequired, codeForKeyword("required"))
	assert.Equal(t, ErrCodeEnum, codeForKeyword("const"))
	assert.Equal(t, ErrCodeSchema, codeForKeyword("oneOf"))
}
