package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbolLength: 20\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.SymbolLength)
	assert.Equal(t, "rtlsdr", cfg.Device)
	assert.Equal(t, -500*time.Millisecond, cfg.EarlyDuplicateThreshold)
}

func TestLoadRejectsNonPositiveSymbolLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: replay\nsymbolLength: 0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestStationAllowed(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.StationAllowed(3))

	cfg.StationFilter = []int{1, 2}
	assert.True(t, cfg.StationAllowed(1))
	assert.False(t, cfg.StationAllowed(3))
}
