package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/insightdeck/internal/config"
)

func TestGetConfigDirHonoursHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)

	got, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Equal(t, filepath.Join(dir, "insightdeck.log"), config.DefaultLogFile())
}

func TestEnsureLogDir(t *testing.T) {
	require.NoError(t, config.EnsureLogDir(""))

	file := filepath.Join(t.TempDir(), "nested", "logs", "out.log")
	require.NoError(t, config.EnsureLogDir(file))
	assert.DirExists(t, filepath.Dir(file))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	cfg := config.New()
	cfg.Render.MaxDepth = 3

	require.NoError(t, cfg.Save(path, false))
	require.ErrorIs(t, cfg.Save(path, false), config.ErrConfigExists)
	require.NoError(t, cfg.Save(path, true))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Render.MaxDepth)
}
