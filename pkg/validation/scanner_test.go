package validation

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/specs/site-api-v2.yaml",
		"/specs/site-api.yaml",
		"/specs/notes.txt",
		"/specs/archive/site-api-v1.yaml",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("openapi: 3.0.3\n"), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/specs/empty.yaml", 0o755))
	return fs
}

func resourceNames(resources []Resource) []string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}
	return names
}

func TestFSScanner_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		glob      string
		wantNames []string
		wantLocs  []string
	}{
		{
			name:      "default glob lists files in the directory",
			glob:      "",
			wantNames: []string{"notes.txt", "site-api-v2.yaml", "site-api.yaml"},
			wantLocs:  []string{"/specs/notes.txt", "/specs/site-api-v2.yaml", "/specs/site-api.yaml"},
		},
		{
			name:      "recursive glob",
			glob:      "**/*.yaml",
			wantNames: []string{"site-api-v1.yaml", "site-api-v2.yaml", "site-api.yaml"},
			wantLocs:  []string{"/specs/archive/site-api-v1.yaml", "/specs/site-api-v2.yaml", "/specs/site-api.yaml"},
		},
		{
			name:      "alternatives",
			glob:      "{site-api,site-api-v2}.yaml",
			wantNames: []string{"site-api-v2.yaml", "site-api.yaml"},
			wantLocs:  []string{"/specs/site-api-v2.yaml", "/specs/site-api.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := &FSScanner{Fs: newScanFs(t), Glob: tt.glob}
			resources, err := scanner.Scan("/specs")
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, resourceNames(resources))

			locs := make([]string, len(resources))
			for i, r := range resources {
				locs[i] = r.Location.String()
			}
			assert.Equal(t, tt.wantLocs, locs)
		})
	}
}

func TestFSScanner_MissingDirectory(t *testing.T) {
	t.Parallel()

	resources, err := NewFSScanner(afero.NewMemMapFs()).Scan("/nowhere")
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestFSScanner_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := (&FSScanner{Fs: afero.NewMemMapFs(), Glob: "[a-"}).Scan("/specs")
	assert.Error(t, err)
}

func TestStaticScanner(t *testing.T) {
	t.Parallel()

	scanner := StaticScanner{
		{Name: "site-api.yaml", Location: NewBytesLocation("a", nil)},
	}
	resources, err := scanner.Scan("ignored")
	require.NoError(t, err)
	require.Len(t, resources, 1)

	resources[0].Name = "changed"
	assert.Equal(t, "site-api.yaml", scanner[0].Name)
}
