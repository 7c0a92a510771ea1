package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MARKET_TEST_KEY=from-file\n"), 0o600))

	t.Setenv("ENV_PATH", path)
	t.Setenv("MARKET_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("MARKET_TEST_KEY"))

	require.NoError(t, LoadDotEnv("local", "ignored/.env"))
	assert.Equal(t, "from-file", os.Getenv("MARKET_TEST_KEY"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "nope.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.Error(t, LoadDotEnv("", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}
