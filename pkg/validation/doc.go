// Package validation checks JSON content against the response schemas of a
// versioned OpenAPI 3 specification.
//
// A specification path such as "/{contentPath}/index.json" describes the
// content served for the suffix "index". Spec resolves a suffix to the path
// declared for it and hands out a SchemaValidator bound to the schema of the
// path's 200 application/json response.
//
// # Basic Usage
//
// Discover the versions shipped in a directory and open the latest:
//
//	versions, err := validation.NewSpecVersions(afero.NewOsFs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	spec, err := versions.GetLatest(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Validate content:
//
//	v, err := spec.SchemaValidator("index")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := v.Validate(body); err != nil {
//	    log.Printf("content rejected: %v", err)
//	}
//
// Every schema violation is reported, one per line, in a single
// *ContentValidationError.
//
// # Spec Loading
//
// Before parsing, quoted keys starting with "{contentPath}" are rewritten to
// start with "/{contentPath}". The document must then pass OAS3 structural
// validation; all structural problems are reported together in a
// *SpecInvalidError.
//
// Documents declaring openapi 3.0.x are evaluated with OAS 3.0 schema
// semantics. Documents declaring 3.1.x are evaluated as JSON Schema 2020-12.
//
// # Formats
//
// Importing the package registers the email, uuid, uri, ipv4, ipv6 and
// hostname string formats with kin-openapi, so OAS 3.0 documents assert them
// the way the 2020-12 format vocabulary does for 3.1 documents.
package validation
