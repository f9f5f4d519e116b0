package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// rootFields are the top-level keys an OAS3 document may declare besides x- extensions.
var rootFields = map[string]bool{
	"openapi":           true,
	"info":              true,
	"jsonSchemaDialect": true,
	"servers":           true,
	"paths":             true,
	"webhooks":          true,
	"components":        true,
	"security":          true,
	"tags":              true,
	"externalDocs":      true,
}

// jsonSchemaKeywords are the JSON Schema 2020-12 keywords OAS 3.1 allows in a
// schema object that the OAS 3.0 model does not know.
var jsonSchemaKeywords = []string{
	"$schema", "$id", "$anchor", "$defs", "$comment", "$dynamicRef", "$dynamicAnchor",
	"const", "contains", "minContains", "maxContains", "prefixItems",
	"dependentRequired", "dependentSchemas", "propertyNames",
	"unevaluatedItems", "unevaluatedProperties", "if", "then", "else",
	"contentEncoding", "contentMediaType", "contentSchema", "examples",
}

// checkStructure runs the OAS3 conformance checks section by section so that
// one broken section does not hide problems in the others.
//
// root is the top-level mapping node; it supplies declaration order and the
// raw key set that the typed model drops. For 3.1 documents the component
// schemas are checked against the 2020-12 meta-schema by rc instead.
func checkStructure(ctx context.Context, doc *openapi3.T, root *yaml.Node, rc *resolutionContext) *Result {
	if rc.dialect == DialectOAS31 {
		ctx = openapi3.WithValidationOptions(ctx, openapi3.AllowExtraSiblingFields(jsonSchemaKeywords...))
	}

	result := &Result{Valid: true}
	add := func(path string, err error) {
		result.AddFinding(&Finding{Path: path, Code: ErrCodeSpec, Message: err.Error()})
	}
	missing := func(path, message string) {
		result.AddFinding(&Finding{Path: path, Code: ErrCodeRequired, Message: message})
	}

	for _, key := range mappingKeys(root) {
		if !rootFields[key] && !strings.HasPrefix(key, "x-") {
			result.AddFinding(&Finding{Path: key, Code: ErrCodeUnknownField, Message: "unsupported top-level field"})
		}
	}

	if doc.OpenAPI == "" {
		missing("openapi", "value of openapi must be a non-empty string")
	} else if !strings.HasPrefix(doc.OpenAPI, "3.") {
		add("openapi", fmt.Errorf("unsupported OpenAPI version %q, expected 3.x", doc.OpenAPI))
	}

	if doc.Info == nil {
		missing("info", "must be an object")
	} else if err := doc.Info.Validate(ctx); err != nil {
		add("info", err)
	}

	if c := doc.Components; c != nil {
		names := make([]string, 0, len(c.Schemas))
		for name := range c.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := openapi3.ValidateIdentifier(name); err != nil {
				add("components.schemas."+name, err)
				continue
			}
			if rc.dialect == DialectOAS31 {
				if _, err := rc.compile("/components/schemas/" + escapePointerToken(name)); err != nil {
					add("components.schemas."+name, err)
				}
				continue
			}
			if err := c.Schemas[name].Validate(ctx); err != nil {
				add("components.schemas."+name, err)
			}
		}

		rest := *c
		rest.Schemas = nil
		if err := rest.Validate(ctx); err != nil {
			add("components", err)
		}
	}

	if doc.Paths == nil {
		missing("paths", "must be an object")
	} else {
		before := len(result.Findings)
		for _, key := range pathKeys(doc, root) {
			single := openapi3.NewPaths(openapi3.WithPath(key, doc.Paths.Value(key)))
			if err := single.Validate(ctx); err != nil {
				add("paths."+key, err)
			}
		}
		// cross-path rules (conflicting templates, duplicate operationIds)
		// only make sense once every path item is valid on its own
		if len(result.Findings) == before {
			if err := doc.Paths.Validate(ctx); err != nil {
				add("paths", err)
			}
		}
	}

	if err := doc.Security.Validate(ctx); err != nil {
		add("security", err)
	}
	if err := doc.Servers.Validate(ctx); err != nil {
		add("servers", err)
	}
	if err := doc.Tags.Validate(ctx); err != nil {
		add("tags", err)
	}
	if v := doc.ExternalDocs; v != nil {
		if err := v.Validate(ctx); err != nil {
			add("externalDocs", err)
		}
	}

	return result
}

// pathKeys returns the path keys of doc in declaration order. Keys present in
// the typed model but not in the node are appended sorted.
func pathKeys(doc *openapi3.T, root *yaml.Node) []string {
	declared := mappingKeys(mappingValue(root, "paths"))
	keys := make([]string, 0, doc.Paths.Len())
	seen := make(map[string]bool, len(declared))
	for _, key := range declared {
		if doc.Paths.Value(key) != nil && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var extra []string
	for key := range doc.Paths.Map() {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
