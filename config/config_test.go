package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	c := Default()
	assert.Equal(t, ModeLocal, c.Mode())

	c.RemoteURL = "https://example.hf.space"
	assert.Equal(t, ModeRemote, c.Mode())

	c.Offline = true
	assert.Equal(t, ModeStatic, c.Mode(), "offline wins over a configured remote url")
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	data := `
port = "9000"
remote_url = "https://caption.example.com"
sample_delay_ms = 250
`
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, ModeRemote, c.Mode())
	assert.Equal(t, 250*time.Millisecond, c.SampleDelay())
	assert.Equal(t, "0.0.0.0", c.Host)
	assert.Equal(t, 60*time.Second, c.RequestTimeout())
}

func TestLoad_InvalidToml(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("port = = 1"), 0o644))

	_, err := Load(p)
	require.Error(t, err)
}

func TestLoad_StatErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	_, err := Load(filepath.Join(notADir, "config.toml"))
	require.Error(t, err)
}
