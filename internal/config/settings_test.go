package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/layout"
)

func TestLoadSettings_Defaults(t *testing.T) {
	paths := PathsAt(t.TempDir())

	s, err := LoadSettings(paths, "")
	require.NoError(t, err)

	assert.Equal(t, 64, s.DefaultWidth)
	assert.Equal(t, 64, s.DefaultHeight)
	assert.Equal(t, host.RGB, s.DefaultMode)
	assert.Equal(t, layout.Grid, s.SheetMode)
	assert.Equal(t, 50, s.HistoryLimit)
	assert.Equal(t, logrus.WarnLevel, s.LogLevel)
	assert.Empty(t, s.File)
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	paths := PathsAt(t.TempDir())
	yaml := "default_width: 32\ndefault_height: 16\ndefault_mode: gray\nsheet_mode: strip\nhistory_limit: 5\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(paths.Config, []byte(yaml), 0644))

	s, err := LoadSettings(paths, "")
	require.NoError(t, err)

	assert.Equal(t, 32, s.DefaultWidth)
	assert.Equal(t, 16, s.DefaultHeight)
	assert.Equal(t, host.Gray, s.DefaultMode)
	assert.Equal(t, layout.Strip, s.SheetMode)
	assert.Equal(t, 5, s.HistoryLimit)
	assert.Equal(t, logrus.DebugLevel, s.LogLevel)
	assert.Equal(t, paths.Config, s.File)
}

func TestLoadSettings_ExplicitFileAndEnv(t *testing.T) {
	paths := PathsAt(t.TempDir())
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("default_width: 8\n"), 0644))
	t.Setenv("SPRITEDEV_HISTORY_LIMIT", "3")

	s, err := LoadSettings(paths, file)
	require.NoError(t, err)

	assert.Equal(t, 8, s.DefaultWidth)
	assert.Equal(t, 3, s.HistoryLimit)
	assert.Equal(t, file, s.File)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad mode", yaml: "default_mode: cmyk\n"},
		{name: "bad sheet mode", yaml: "sheet_mode: spiral\n"},
		{name: "bad level", yaml: "log_level: loud\n"},
		{name: "bad size", yaml: "default_width: 0\n"},
		{name: "negative history", yaml: "history_limit: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := PathsAt(t.TempDir())
			require.NoError(t, os.WriteFile(paths.Config, []byte(tt.yaml), 0644))

			_, err := LoadSettings(paths, "")
			assert.Error(t, err)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadSettings(PathsAt(t.TempDir()), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
