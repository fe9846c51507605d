package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tagsync.yaml", config.StorePath)
	assert.Equal(t, "schema-authority", config.Policy)
	assert.Equal(t, 1, config.Workers)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `store: /var/lib/tagsync/store.yaml
policy: tag-authority
workers: 4
templates:
  table: desc-table
  field: desc-field
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tagsync/store.yaml", config.StorePath)
	assert.Equal(t, "tag-authority", config.Policy)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "desc-table", config.TableTemplate)
	assert.Equal(t, "desc-field", config.FieldTemplate)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TAGSYNC_STORE", "/tmp/env-store.yaml")
	t.Setenv("TAGSYNC_POLICY", "tag-authority")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-store.yaml", config.StorePath)
	assert.Equal(t, "tag-authority", config.Policy)
}
