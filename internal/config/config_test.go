package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "figs", cfg.Assets.Dir)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[assets]
dir = "/srv/figs"

[lists]
species = "lists/species.txt"

[server]
port = 9000
shutdown_timeout = "3s"

[log]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/figs", cfg.Assets.Dir)
	assert.Equal(t, "lists/species.txt", cfg.Lists.Species)
	assert.Equal(t, "treesizes.txt", cfg.Lists.Heights)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nshutdown_timeout = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestListFiles(t *testing.T) {
	files := Defaults().ListFiles()
	assert.Equal(t, "species.txt", files[model.GroupSpecies])
	assert.Equal(t, "regions.txt", files[model.GroupRegion])
	assert.Len(t, files, 4)
}
