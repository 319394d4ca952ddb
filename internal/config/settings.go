package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/layout"
)

// EnvPrefix prefixes every environment override, e.g. SPRITEDEV_HISTORY_LIMIT.
const EnvPrefix = "SPRITEDEV"

// Settings holds user-tunable defaults.
type Settings struct {
	DefaultWidth  int
	DefaultHeight int
	DefaultMode   host.Mode
	SheetMode     layout.Mode
	HistoryLimit  int
	LogLevel      logrus.Level

	// File is the config file that was read, or "" when none was.
	File string
}

// LoadSettings reads settings from cfgFile, or from the config.yaml under
// paths when cfgFile is empty, then applies SPRITEDEV_* environment
// overrides. A missing default config file is not an error.
func LoadSettings(paths *Paths, cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("default_width", 64)
	v.SetDefault("default_height", 64)
	v.SetDefault("default_mode", "rgb")
	v.SetDefault("sheet_mode", string(layout.Grid))
	v.SetDefault("history_limit", 50)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	file := cfgFile
	if file == "" {
		if _, err := os.Stat(paths.Config); err == nil {
			file = paths.Config
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	s := &Settings{
		DefaultWidth:  v.GetInt("default_width"),
		DefaultHeight: v.GetInt("default_height"),
		HistoryLimit:  v.GetInt("history_limit"),
		File:          file,
	}
	if s.DefaultWidth <= 0 || s.DefaultHeight <= 0 {
		return nil, fmt.Errorf("invalid default size %dx%d", s.DefaultWidth, s.DefaultHeight)
	}
	if s.HistoryLimit < 0 {
		return nil, fmt.Errorf("invalid history_limit %d", s.HistoryLimit)
	}

	var err error
	if s.DefaultMode, err = host.ParseMode(v.GetString("default_mode")); err != nil {
		return nil, fmt.Errorf("invalid default_mode: %w", err)
	}
	if s.SheetMode, err = layout.ParseMode(v.GetString("sheet_mode")); err != nil {
		return nil, fmt.Errorf("invalid sheet_mode: %w", err)
	}
	if s.LogLevel, err = logrus.ParseLevel(v.GetString("log_level")); err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	return s, nil
}
