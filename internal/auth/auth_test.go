package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_RoundTrip(t *testing.T) {
	t.Setenv(EnvToken, "")
	c := Credentials{Dir: filepath.Join(t.TempDir(), ".trail")}

	ti, err := c.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)

	require.NoError(t, c.Set("Bearer abc123", nil))
	info, err := os.Stat(filepath.Join(c.Dir, credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	ti, err = c.Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc123", ti.Token)
	assert.Equal(t, "file", ti.Source)
	assert.Equal(t, "Bearer abc123", c.Header())

	require.NoError(t, c.Delete())
	require.NoError(t, c.Delete())
	assert.Equal(t, "", c.Header())
}

func TestCredentials_EnvOverride(t *testing.T) {
	t.Setenv(EnvToken, "bearer from-env")
	c := Credentials{Dir: t.TempDir()}

	ti, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestCredentials_EmptyToken(t *testing.T) {
	assert.Error(t, Credentials{Dir: t.TempDir()}.Set("  ", nil))
}

func TestCredentials_ExpiredTokenNotSent(t *testing.T) {
	t.Setenv(EnvToken, "")
	c := Credentials{Dir: t.TempDir()}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, c.Set("old", &past))
	assert.Equal(t, "", c.Header())
}
