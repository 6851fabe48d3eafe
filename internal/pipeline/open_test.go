package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	tests := map[string]Compression{
		"latest-all.nt.bz2": Bzip2,
		"latest-all.nt.gz":  Gzip,
		"dump.nt.xz":        XZ,
		"dump.nt":           None,
		Stdio:               None,
	}
	for path, want := range tests {
		assert.Equal(t, want, CompressionFor(path), path)
	}
}

func TestCreateOpenRoundTrip(t *testing.T) {
	body := strings.Repeat(dump(3), 20)
	for _, ext := range []string{".nt", ".nt.gz", ".nt.bz2", ".nt.xz"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dump"+ext)

			w, err := Create(path)
			require.NoError(t, err)
			_, err = io.WriteString(w, body)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			if ext != ".nt" {
				assert.Less(t, len(raw), len(body), "expected compressed output")
			}

			r, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, body, string(got))
		})
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.nt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.nt.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0o600))
	_, err := Open(path)
	assert.Error(t, err)
}
