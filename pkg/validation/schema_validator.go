package validation

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getmockd/contentspec/pkg/util"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxExcerptSize bounds the content echoed back in MalformedJSONError.
const maxExcerptSize = 2 * 1024

// evaluator checks a decoded JSON value against one bound schema fragment
// and returns every violation it finds.
type evaluator interface {
	evaluate(value any) []*Finding
}

// SchemaValidator validates JSON content against the response schema of one suffix.
// Create instances with Spec.SchemaValidator. A SchemaValidator is immutable and
// safe for concurrent use.
type SchemaValidator struct {
	suffix  string
	pathKey string
	eval    evaluator
}

// Suffix returns the suffix the validator was built for.
func (v *SchemaValidator) Suffix() string {
	return v.suffix
}

// Path returns the path key of the specification the suffix resolved to.
func (v *SchemaValidator) Path() string {
	return v.pathKey
}

// Validate checks jsonText against the schema.
// It returns a *MalformedJSONError if jsonText is not JSON and a
// *ContentValidationError carrying every violation otherwise.
func (v *SchemaValidator) Validate(jsonText string) error {
	return v.ValidateBytes([]byte(jsonText))
}

// ValidateBytes is Validate for raw bytes.
func (v *SchemaValidator) ValidateBytes(data []byte) error {
	result, err := v.check(data)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return &ContentValidationError{Suffix: v.suffix, Findings: result.Findings}
}

// Check validates jsonText and returns the findings as a Result instead of an error.
// The error is non-nil only when jsonText is not JSON.
func (v *SchemaValidator) Check(jsonText string) (*Result, error) {
	return v.check([]byte(jsonText))
}

func (v *SchemaValidator) check(data []byte) (*Result, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &MalformedJSONError{
			Excerpt: util.TruncateBody(string(data), maxExcerptSize),
			Cause:   err,
		}
	}

	result := &Result{Valid: true}
	for _, f := range v.eval.evaluate(value) {
		result.AddFinding(f)
	}
	return result, nil
}

// oas30Evaluator evaluates OAS 3.0 schema objects (nullable, readOnly, writeOnly)
// with refs already resolved by the document loader.
type oas30Evaluator struct {
	schema *openapi3.Schema
}

func (e *oas30Evaluator) evaluate(value any) []*Finding {
	err := e.schema.VisitJSON(value, openapi3.MultiErrors(), openapi3.VisitAsResponse())
	if err == nil {
		return nil
	}
	return appendSchemaErrors(nil, err)
}

// appendSchemaErrors flattens kin-openapi validation errors into findings,
// keeping the order in which the visitor reported them.
func appendSchemaErrors(findings []*Finding, err error) []*Finding {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			findings = appendSchemaErrors(findings, inner)
		}
		return findings
	case *openapi3.SchemaError:
		return append(findings, &Finding{
			Path:    formatJSONPath(e.JSONPointer()),
			Code:    codeForKeyword(e.SchemaField),
			Message: schemaErrorMessage(e),
		})
	default:
		var se *openapi3.SchemaError
		if errors.As(err, &se) {
			return appendSchemaErrors(findings, se)
		}
		return append(findings, &Finding{Path: "$", Code: ErrCodeSchema, Message: err.Error()})
	}
}

func schemaErrorMessage(e *openapi3.SchemaError) string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.Origin != nil:
		return e.Origin.Error()
	default:
		return "doesn't match schema due to " + e.SchemaField
	}
}

// jsonSchemaEvaluator evaluates JSON Schema 2020-12 fragments of OAS 3.1 documents.
type jsonSchemaEvaluator struct {
	schema *jsonschema.Schema
}

func (e *jsonSchemaEvaluator) evaluate(value any) []*Finding {
	err := e.schema.Validate(value)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []*Finding{{Path: "$", Code: ErrCodeSchema, Message: err.Error()}}
	}

	var leaves []*jsonschema.ValidationError
	collectLeaves(ve, &leaves)
	// the engine walks properties in map order
	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].InstanceLocation != leaves[j].InstanceLocation {
			return leaves[i].InstanceLocation < leaves[j].InstanceLocation
		}
		return leaves[i].KeywordLocation < leaves[j].KeywordLocation
	})

	findings := make([]*Finding, 0, len(leaves))
	for _, leaf := range leaves {
		findings = append(findings, &Finding{
			Path:    formatJSONPath(splitPointer(leaf.InstanceLocation)),
			Code:    codeForKeyword(lastSegment(leaf.KeywordLocation)),
			Message: leaf.Message,
		})
	}
	return findings
}

func collectLeaves(err *jsonschema.ValidationError, leaves *[]*jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*leaves = append(*leaves, err)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, leaves)
	}
}

// splitPointer splits a JSON pointer into unescaped reference tokens.
func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "~1", "/"), "~0", "~")
	}
	return parts
}

func lastSegment(ptr string) string {
	if i := strings.LastIndexByte(ptr, '/'); i >= 0 {
		return ptr[i+1:]
	}
	return ptr
}

// escapePointerToken escapes one JSON pointer reference token for use in a URI fragment.
func escapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// formatJSONPath converts a JSON pointer parts array to a more readable format
func formatJSONPath(parts []string) string {
	// Convert ["foo", "bar", "0"] to $.foo.bar[0]
	var sb strings.Builder
	sb.WriteString("$")
	for _, part := range parts {
		if part == "" {
			continue
		}
		// Check if it's an array index
		if isNumeric(part) {
			sb.WriteString("[")
			sb.WriteString(part)
			sb.WriteString("]")
		} else {
			sb.WriteString(".")
			sb.WriteString(part)
		}
	}
	return sb.String()
}

// isNumeric checks if a string is a number
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
