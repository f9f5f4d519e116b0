package validation

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getmockd/contentspec/pkg/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// Dialect selects the schema semantics used to evaluate content.
type Dialect string

// Supported dialects.
const (
	// DialectOAS30 evaluates OAS 3.0 schema objects (nullable, readOnly, writeOnly).
	DialectOAS30 Dialect = "3.0"
	// DialectOAS31 evaluates JSON Schema 2020-12 as embedded by OAS 3.1.
	DialectOAS31 Dialect = "3.1"
)

// responseSchemaAddress is where the response schema lives below a path item.
// "~1" is "/" in JSON pointer syntax.
const responseSchemaAddress = "/get/responses/200/content/application~1json/schema"

// documentURL names the document inside the per-document JSON Schema compiler.
const documentURL = "openapi.json"

// SpecOption configures OpenSpec.
type SpecOption func(*specConfig)

type specConfig struct {
	logger *slog.Logger
}

// WithSpecLogger sets the logger used by the Spec.
func WithSpecLogger(logger *slog.Logger) SpecOption {
	return func(c *specConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Spec is a loaded and structurally valid OAS3 specification document.
// It hands out one cached SchemaValidator per suffix and is safe for concurrent use.
type Spec struct {
	location Location
	version  string
	root     *yaml.Node
	paths    []string
	ctx      *resolutionContext
	logger   *slog.Logger

	mu         sync.RWMutex
	validators map[string]*SchemaValidator
	group      singleflight.Group
}

// resolutionContext follows internal $refs for every schema fragment of one document.
// For DialectOAS30 the loader has already resolved them into doc; for DialectOAS31
// the compiler holds the whole document as a single resource.
type resolutionContext struct {
	doc     *openapi3.T
	dialect Dialect

	mu       sync.Mutex
	compiler *jsonschema.Compiler
}

// OpenSpec reads, normalizes, parses and validates the specification at loc.
//
// It fails with ErrResourceNotFound if loc cannot be read and with a
// *SpecInvalidError if the document does not parse or is not a conformant
// OAS3 document. No Spec is returned unless every check passed.
func OpenSpec(ctx context.Context, loc Location, version string, opts ...SpecOption) (*Spec, error) {
	cfg := &specConfig{logger: logging.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	raw, err := readLocation(loc)
	if err != nil {
		return nil, err
	}
	data := []byte(NormalizeContentPath(string(raw)))

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &SpecInvalidError{Location: loc.String(), Summary: "unable to parse", Cause: err}
	}
	root, err := documentNode(&node)
	if err != nil {
		return nil, &SpecInvalidError{Location: loc.String(), Summary: "unable to parse", Cause: err}
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, &SpecInvalidError{Location: loc.String(), Summary: "unable to load", Cause: err}
	}

	rc, err := newResolutionContext(doc, root)
	if err != nil {
		return nil, &SpecInvalidError{Location: loc.String(), Summary: "unable to build resolution context", Cause: err}
	}

	if result := checkStructure(ctx, doc, root, rc); !result.Valid {
		return nil, &SpecInvalidError{
			Location: loc.String(),
			Summary:  fmt.Sprintf("%d structural finding(s)", len(result.Findings)),
			Findings: result.Findings,
		}
	}

	s := &Spec{
		location:   loc,
		version:    version,
		root:       root,
		paths:      pathKeys(doc, root),
		ctx:        rc,
		logger:     cfg.logger,
		validators: make(map[string]*SchemaValidator),
	}
	s.logger.Info("specification loaded",
		"location", loc.String(),
		"version", version,
		"openapi", doc.OpenAPI,
		"paths", len(s.paths))
	return s, nil
}

// OpenSpecFile opens the specification stored at path on fs.
func OpenSpecFile(ctx context.Context, fs afero.Fs, path, version string, opts ...SpecOption) (*Spec, error) {
	return OpenSpec(ctx, NewFileLocation(fs, path), version, opts...)
}

func newResolutionContext(doc *openapi3.T, root *yaml.Node) (*resolutionContext, error) {
	rc := &resolutionContext{doc: doc, dialect: DialectOAS30}
	if !strings.HasPrefix(doc.OpenAPI, "3.1") {
		return rc, nil
	}

	rc.dialect = DialectOAS31
	data, err := nodeJSON(root)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(documentURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add document resource: %w", err)
	}
	rc.compiler = compiler
	return rc, nil
}

// Location returns where the document was loaded from.
func (s *Spec) Location() Location {
	return s.location
}

// Version returns the version label the document was opened with, possibly empty.
func (s *Spec) Version() string {
	return s.version
}

// Dialect returns the schema dialect used to evaluate content.
func (s *Spec) Dialect() Dialect {
	return s.ctx.dialect
}

// Document returns the typed OpenAPI document.
// Callers must not modify it.
func (s *Spec) Document() *openapi3.T {
	return s.ctx.doc
}

func (s *Spec) String() string {
	return s.location.String()
}

// Suffixes returns the distinct suffixes of the path keys ending in ".json",
// in declaration order.
func (s *Spec) Suffixes() []string {
	var suffixes []string
	seen := make(map[string]bool)
	for _, key := range s.paths {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		name := strings.TrimSuffix(key[strings.LastIndexByte(key, '/')+1:], ".json")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		suffixes = append(suffixes, name)
	}
	return suffixes
}

// SchemaValidator returns the validator for the response schema of the path
// ending in "/<suffix>.json".
//
// Validators are built once per suffix and cached for the lifetime of the Spec;
// concurrent first calls for the same suffix share one build. A failed lookup
// returns a *SuffixNotFoundError and is not cached.
func (s *Spec) SchemaValidator(suffix string) (*SchemaValidator, error) {
	s.mu.RLock()
	v, ok := s.validators[suffix]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := s.group.Do(suffix, func() (any, error) {
		s.mu.RLock()
		v, ok := s.validators[suffix]
		s.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := s.buildSchemaValidator(suffix)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.validators[suffix] = v
		s.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*SchemaValidator), nil
}

func (s *Spec) buildSchemaValidator(suffix string) (*SchemaValidator, error) {
	pathKey, ok := s.findMatchingPath(suffix)
	if !ok {
		return nil, &SuffixNotFoundError{Suffix: suffix}
	}

	eval, err := s.ctx.evaluatorFor(pathKey)
	if err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, &SuffixNotFoundError{Suffix: suffix, Address: responseSchemaAddress}
	}

	s.logger.Debug("schema validator built",
		"suffix", suffix,
		"path", pathKey,
		"dialect", string(s.ctx.dialect))
	return &SchemaValidator{suffix: suffix, pathKey: pathKey, eval: eval}, nil
}

// findMatchingPath returns the first declared path key ending in "/<suffix>.json".
func (s *Spec) findMatchingPath(suffix string) (string, bool) {
	pattern := regexp.MustCompile("^.+/" + regexp.QuoteMeta(suffix) + `\.json$`)
	match := ""
	for _, key := range s.paths {
		if !pattern.MatchString(key) {
			continue
		}
		if match != "" {
			s.logger.Debug("suffix matches more than one path, keeping the first",
				"suffix", suffix,
				"path", match,
				"shadowed", key)
			continue
		}
		match = key
	}
	return match, match != ""
}

// evaluatorFor returns an evaluator for the response schema of pathKey,
// or nil if the path item has nothing at responseSchemaAddress.
func (rc *resolutionContext) evaluatorFor(pathKey string) (evaluator, error) {
	schemaRef := responseSchema(rc.doc.Paths.Value(pathKey))
	if schemaRef == nil || schemaRef.Value == nil {
		return nil, nil
	}
	if rc.dialect == DialectOAS30 {
		return &oas30Evaluator{schema: schemaRef.Value}, nil
	}

	schema, err := rc.compile("/paths/" + escapePointerToken(pathKey) + responseSchemaAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema of %s: %w", pathKey, err)
	}
	return &jsonSchemaEvaluator{schema: schema}, nil
}

// compile compiles the schema at the JSON pointer ptr of the document.
// Only valid for DialectOAS31.
func (rc *resolutionContext) compile(ptr string) (*jsonschema.Schema, error) {
	tokens := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, t := range tokens {
		tokens[i] = url.PathEscape(t)
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.compiler.Compile(documentURL + "#/" + strings.Join(tokens, "/"))
}

// responseSchema walks get → responses["200"] → content["application/json"] → schema.
func responseSchema(item *openapi3.PathItem) *openapi3.SchemaRef {
	if item == nil || item.Get == nil || item.Get.Responses == nil {
		return nil
	}
	response := item.Get.Responses.Value("200")
	if response == nil || response.Value == nil {
		return nil
	}
	media := response.Value.Content["application/json"]
	if media == nil {
		return nil
	}
	return media.Schema
}
