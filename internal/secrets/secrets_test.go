// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "googleplaces-api-key"), []byte("  abc123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yelp-api-key"), []byte("xyz789"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty-key"), []byte("   \n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("nope"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	secrets, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "abc123", secrets["googleplaces-api-key"], "values are trimmed")
	assert.Equal(t, "xyz789", secrets["yelp-api-key"])
	assert.NotContains(t, secrets, "empty-key", "blank files are skipped")
	assert.NotContains(t, secrets, ".hidden", "dotfiles are skipped")
	assert.NotContains(t, secrets, "subdir")
}

func TestLoadMissingDirectory(t *testing.T) {
	secrets, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, secrets)
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLACE_FINDER_TEST_A=from-dotenv\nPLACE_FINDER_TEST_B=also-dotenv\n"), 0o600))

	t.Setenv("PLACE_FINDER_TEST_A", "from-environment")
	os.Unsetenv("PLACE_FINDER_TEST_B")
	t.Cleanup(func() { os.Unsetenv("PLACE_FINDER_TEST_B") })

	require.NoError(t, LoadDotenv(path))

	assert.Equal(t, "from-environment", os.Getenv("PLACE_FINDER_TEST_A"),
		"existing environment variables win over .env")
	assert.Equal(t, "also-dotenv", os.Getenv("PLACE_FINDER_TEST_B"))
}

func TestLoadDotenvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), ".env")))
}
