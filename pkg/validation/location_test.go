package validation

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLocation(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/specs/site-api.yaml", []byte("openapi: 3.0.3"), 0o644))

	loc := NewFileLocation(fs, "/specs/site-api.yaml")
	assert.Equal(t, "/specs/site-api.yaml", loc.String())

	data, err := readLocation(loc)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3", string(data))

	_, err = readLocation(NewFileLocation(fs, "/specs"))
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = readLocation(NewFileLocation(fs, "/specs/missing.yaml"))
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestBytesLocation(t *testing.T) {
	t.Parallel()

	loc := NewBytesLocation("inline", []byte("openapi: 3.1.0"))
	assert.Equal(t, "inline", loc.String())

	for i := 0; i < 2; i++ {
		r, err := loc.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "openapi: 3.1.0", string(data))
	}
}
