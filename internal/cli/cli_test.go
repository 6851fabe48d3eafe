package cli

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdf-munge/internal/config"
)

const sampleDump = `<http://www.wikidata.org/wiki/Special:EntityData/Q42> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Dataset> .
<http://www.wikidata.org/wiki/Special:EntityData/Q42> <http://schema.org/about> <http://www.wikidata.org/entity/Q42> .
<http://www.wikidata.org/wiki/Special:EntityData/Q42> <http://schema.org/version> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://www.wikidata.org/entity/Q42> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://wikiba.se/ontology-beta#Item> .
<http://www.wikidata.org/entity/Q42> <http://www.w3.org/2000/01/rdf-schema#label> "Douglas Adams"@en .
<http://www.wikidata.org/entity/Q42> <http://www.w3.org/2000/01/rdf-schema#label> "Douglas Adams"@fr .
<https://en.wikipedia.org/wiki/Douglas_Adams> <http://schema.org/about> <http://www.wikidata.org/entity/Q42> .
`

// execute runs the command line with an isolated HOME.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rdf-munge dev\n", out)
}

func TestMungeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dump.nt.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleDump))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o600))
	out := filepath.Join(dir, "munged.nt")

	_, stderr, err := execute(t, "munge", "--from", in, "--to", out,
		"--labels", "en", "--skip-site-links", "--workers", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Read 7 statements, wrote 2 for 1 entities")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `<http://www.wikidata.org/entity/Q42> <http://schema.org/version> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://www.wikidata.org/entity/Q42> <http://www.w3.org/2000/01/rdf-schema#label> "Douglas Adams"@en .
`, string(got))
}

func TestMungeRequiresFrom(t *testing.T) {
	_, _, err := execute(t, "munge")
	assert.Error(t, err)
}

func TestMungeRejectsBadConfig(t *testing.T) {
	_, _, err := execute(t, "munge", "--from", "x.nt", "--invalid-points", "fix")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestPointCommand(t *testing.T) {
	out, _, err := execute(t, "point", "Point(41.9 12.5)", "--to-order", "long-lat")
	require.NoError(t, err)
	assert.Contains(t, out, "latitude:  41.9\n")
	assert.Contains(t, out, "longitude: 12.5\n")
	assert.Contains(t, out, "wkt:       POINT(12.5 41.9) (long-lat)\n")

	out, _, err = execute(t, "point", "<http://www.wikidata.org/entity/Q405> Point(1 2)", "--order", "long-lat")
	require.NoError(t, err)
	assert.Contains(t, out, "latitude:  2\n")
	assert.Contains(t, out, "globe:     http://www.wikidata.org/entity/Q405\n")
	assert.Contains(t, out, "wkt:       n/a")

	_, _, err = execute(t, "point", "LINESTRING(1 2, 3 4)")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("munge:\n  remove_site_links: true\npipeline:\n  workers: 5\n"), 0o600))

	out, stderr, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stderr, "Configuration file: "+path))

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.Munge.RemoveSiteLinks)
	assert.Equal(t, 5, cfg.Pipeline.Workers)
	assert.Equal(t, "http://www.wikidata.org", cfg.Wikibase.Root)
}

func TestConfigShowEnvironment(t *testing.T) {
	t.Setenv("RDF_MUNGE_WIKIBASE_ROOT", "https://test.wikidata.org")
	out, stderr, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No configuration file found")
	assert.Contains(t, out, "root: https://test.wikidata.org")
}
