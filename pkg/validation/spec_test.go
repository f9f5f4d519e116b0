package validation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecDir = "testdata/site-api-spec"

func openTestSpec(t *testing.T, name, version string) *Spec {
	t.Helper()
	spec, err := OpenSpecFile(context.Background(), afero.NewOsFs(), testSpecDir+"/"+name, version)
	require.NoError(t, err)
	return spec
}

const minimalSpec = `
openapi: 3.0.3
info:
  title: Minimal
  version: "1"
paths:
  "{contentPath}/item.json":
    get:
      parameters:
        - name: contentPath
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: Item
          content:
            application/json:
              schema:
                type: object
                required: [id]
                properties:
                  id:
                    type: integer
`

// =============================================================================
// OpenSpec
// =============================================================================

func TestOpenSpec_NormalizesContentPath(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api-v2.yaml", "v2")

	doc := spec.Document()
	require.NotNil(t, doc)
	assert.NotNil(t, doc.Paths.Value("/{contentPath}/index.json"))
	assert.Nil(t, doc.Paths.Value("{contentPath}/index.json"))
	assert.Equal(t, []string{"index", "detail", "sitemap"}, spec.Suffixes())
}

func TestOpenSpec_Accessors(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api-v1.yaml", "v1")

	assert.Equal(t, "v1", spec.Version())
	assert.Equal(t, testSpecDir+"/site-api-v1.yaml", spec.String())
	assert.Equal(t, spec.String(), spec.Location().String())
	assert.Equal(t, DialectOAS30, spec.Dialect())
}

func TestOpenSpec_EmptyVersion(t *testing.T) {
	t.Parallel()

	spec, err := OpenSpec(context.Background(), NewBytesLocation("minimal.yaml", []byte(minimalSpec)), "")
	require.NoError(t, err)
	assert.Equal(t, "", spec.Version())
	assert.Equal(t, "minimal.yaml", spec.String())
}

func TestOpenSpec_ResourceNotFound(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/specs", 0o755))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: "/specs/missing.yaml"},
		{name: "directory", path: "/specs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenSpecFile(context.Background(), fs, tt.path, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrResourceNotFound)
			assert.NotErrorIs(t, err, ErrSpecInvalid)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestOpenSpec_UnparsableDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		open func() (*Spec, error)
	}{
		{
			name: "broken yaml",
			open: func() (*Spec, error) {
				return OpenSpecFile(context.Background(), afero.NewOsFs(), "testdata/invalid-yaml.yaml", "")
			},
		},
		{
			name: "empty document",
			open: func() (*Spec, error) {
				return OpenSpec(context.Background(), NewBytesLocation("empty.yaml", nil), "")
			},
		},
		{
			name: "scalar document",
			open: func() (*Spec, error) {
				return OpenSpec(context.Background(), NewBytesLocation("scalar.yaml", []byte("just text")), "")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.open()
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.ErrorIs(t, err, ErrSpecInvalid)

			var invalid *SpecInvalidError
			require.ErrorAs(t, err, &invalid)
			assert.Empty(t, invalid.Findings)
			assert.NotNil(t, invalid.Cause)
			assert.True(t, strings.HasPrefix(err.Error(), "specification is invalid: "))
		})
	}
}

func TestOpenSpec_ReportsEveryStructuralFinding(t *testing.T) {
	t.Parallel()

	_, err := OpenSpecFile(context.Background(), afero.NewOsFs(), "testdata/invalid-structure.yaml", "")
	require.Error(t, err)

	var invalid *SpecInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Findings, 3)
	assert.Equal(t, "basePath", invalid.Findings[0].Path)
	assert.Equal(t, ErrCodeUnknownField, invalid.Findings[0].Code)
	assert.Equal(t, "info", invalid.Findings[1].Path)
	assert.Contains(t, invalid.Findings[1].Message, "title")
	assert.Equal(t, "paths", invalid.Findings[2].Path)
	assert.Equal(t, ErrCodeRequired, invalid.Findings[2].Code)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "specification is invalid: testdata/invalid-structure.yaml - 3 structural finding(s)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "basePath: "))
	assert.True(t, strings.HasPrefix(lines[2], "info: "))
	assert.True(t, strings.HasPrefix(lines[3], "paths: "))
}

func TestOpenSpec_UndeclaredPathParameter(t *testing.T) {
	t.Parallel()

	doc := `
openapi: 3.0.3
info:
  title: Broken
  version: "1"
paths:
  "{contentPath}/item.json":
    get:
      responses:
        "200":
          description: Item
  /health.json:
    get:
      responses:
        "200":
          description: Health
`
	_, err := OpenSpec(context.Background(), NewBytesLocation("broken.yaml", []byte(doc)), "")
	require.Error(t, err)

	var invalid *SpecInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Findings, 1)
	assert.Equal(t, "paths./{contentPath}/item.json", invalid.Findings[0].Path)
	assert.Contains(t, invalid.Findings[0].Message, "contentPath")
}

func TestOpenSpec_RejectsNonOAS3(t *testing.T) {
	t.Parallel()

	doc := strings.Replace(minimalSpec, "openapi: 3.0.3", "openapi: 2.0.0", 1)
	_, err := OpenSpec(context.Background(), NewBytesLocation("swagger.yaml", []byte(doc)), "")
	require.Error(t, err)

	var invalid *SpecInvalidError
	require.ErrorAs(t, err, &invalid)
	require.NotEmpty(t, invalid.Findings)
	assert.Equal(t, "openapi", invalid.Findings[0].Path)
}

// =============================================================================
// SchemaValidator lookup
// =============================================================================

func TestSpec_SchemaValidator(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api-v2.yaml", "v2")

	tests := []struct {
		name        string
		suffix      string
		wantPath    string
		wantErr     bool
		wantAddress string
	}{
		{name: "index", suffix: "index", wantPath: "/{contentPath}/index.json"},
		{name: "first declared path wins", suffix: "detail", wantPath: "/{contentPath}/detail.json"},
		{name: "suffix with segment", suffix: "archive/detail", wantPath: "/{contentPath}/archive/detail.json"},
		{name: "unknown suffix", suffix: "gallery", wantErr: true},
		{name: "partial segment does not match", suffix: "ndex", wantErr: true},
		{name: "suffix is not a pattern", suffix: "in.ex", wantErr: true},
		{name: "path without schema", suffix: "sitemap", wantErr: true, wantAddress: responseSchemaAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := spec.SchemaValidator(tt.suffix)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, v)
				assert.ErrorIs(t, err, ErrSuffixNotFound)

				var notFound *SuffixNotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, tt.suffix, notFound.Suffix)
				assert.Equal(t, tt.wantAddress, notFound.Address)
				assert.Contains(t, err.Error(), tt.suffix)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suffix, v.Suffix())
			assert.Equal(t, tt.wantPath, v.Path())
		})
	}
}

func TestSpec_SchemaValidator_Cached(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api-v1.yaml", "v1")

	first, err := spec.SchemaValidator("index")
	require.NoError(t, err)
	second, err := spec.SchemaValidator("index")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := spec.SchemaValidator("detail")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestSpec_SchemaValidator_ConcurrentFirstCalls(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api-v2.yaml", "v2")

	const workers = 32
	results := make([]*SchemaValidator, workers)
	errs := make([]error, workers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = spec.SchemaValidator("index")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestSpec_SchemaValidator_FailureNotCached(t *testing.T) {
	t.Parallel()

	spec := openTestSpec(t, "site-api.yaml", "")

	_, err := spec.SchemaValidator("detail")
	require.Error(t, err)
	_, err = spec.SchemaValidator("detail")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSuffixNotFound))

	// the object stays usable for other suffixes
	v, err := spec.SchemaValidator("index")
	require.NoError(t, err)
	assert.NoError(t, v.Validate(`{"title": "Home"}`))
}

// =============================================================================
// OAS 3.1
// =============================================================================

func TestOpenSpec_OAS31(t *testing.T) {
	t.Parallel()

	spec, err := OpenSpecFile(context.Background(), afero.NewOsFs(), "testdata/openapi-31.yaml", "v3")
	require.NoError(t, err)
	assert.Equal(t, DialectOAS31, spec.Dialect())
	assert.Equal(t, []string{"index"}, spec.Suffixes())

	v, err := spec.SchemaValidator("index")
	require.NoError(t, err)
	assert.NoError(t, v.Validate(`{"title": "Home", "kind": "index", "teasers": [{"id": 3}]}`))
}

func TestOpenSpec_OAS31_InvalidComponentSchema(t *testing.T) {
	t.Parallel()

	doc := `
openapi: 3.1.0
info:
  title: Broken
  version: "1"
paths: {}
components:
  schemas:
    Index:
      type: objekt
`
	_, err := OpenSpec(context.Background(), NewBytesLocation("broken-31.yaml", []byte(doc)), "")
	require.Error(t, err)

	var invalid *SpecInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Findings, 1)
	assert.Equal(t, "components.schemas.Index", invalid.Findings[0].Path)
}
