package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "livre3d", cfg.Logger.ServiceName)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Equal(t, 800.0, cfg.Viewport.Width)
	assert.Equal(t, 600.0, cfg.Viewport.Height)
	assert.Equal(t, 4, cfg.Resource.Concurrency)
	assert.Empty(t, cfg.Theme.Path)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := `
logger:
  level: debug
  format: json
viewport:
  width: 1024
  height: 768
theme:
  path: theme.toml
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 1024.0, cfg.Viewport.Width)
	assert.Equal(t, 768.0, cfg.Viewport.Height)
	assert.Equal(t, "theme.toml", cfg.Theme.Path)
	// Untouched keys keep their defaults
	assert.Equal(t, "livre3d", cfg.Logger.ServiceName)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 800.0, cfg.Viewport.Width)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LIVRE3D_LOGGER_LEVEL", "warn")
	t.Setenv("LIVRE3D_VIEWPORT_WIDTH", "320")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 320.0, cfg.Viewport.Width)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		set  func(v *viper.Viper)
		ok   bool
	}{
		{"defaults", func(v *viper.Viper) {}, true},
		{"zero width", func(v *viper.Viper) { v.Set("viewport.width", 0) }, false},
		{"negative height", func(v *viper.Viper) { v.Set("viewport.height", -1) }, false},
		{"no workers", func(v *viper.Viper) { v.Set("resource.concurrency", 0) }, false},
		{"bad format", func(v *viper.Viper) { v.Set("logger.format", "xml") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.set(v)
			_, err := NewConfigFromViper(v)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
