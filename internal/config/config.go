// Package config loads the CLI's settings from flags, environment and an
// optional YAML file. Settings are only ever read; link parameters such as
// baud rate are not configurable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SERVO_PANEL_PORT
const EnvPrefix = "SERVO_PANEL"

// Setting keys, shared with the cobra flag names
const (
	KeyPort      = "port"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
)

// appName names the directory searched under the user config dir
const appName = "servo-panel"

// Config holds the resolved settings
type Config struct {
	Port      string `mapstructure:"port"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and resolves every setting. An explicit path
// must exist; without one, a missing config.yaml in the search path is fine.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	c.Port = strings.TrimSpace(c.Port)
	return c, nil
}

// searchPaths lists the directories checked for config.yaml
func searchPaths() []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	return append(dirs, filepath.Join("/etc", appName))
}
