// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Softwhere. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Storage  Storage  `mapstructure:"storage" yaml:"storage"`
	Language string   `mapstructure:"language" yaml:"language"`
	Security Security `mapstructure:"security" yaml:"security"`
	Export   Export   `mapstructure:"export" yaml:"export"`
	UI       UI       `mapstructure:"ui" yaml:"ui"`
	Log      Log      `mapstructure:"log" yaml:"log"`
}

// Storage selects the persistence backend.
type Storage struct {
	// Type is one of "json", "sqlite", "postgres" or "mysql".
	Type string `mapstructure:"type" yaml:"type"`
	// Path is the directory holding users.json and licenses.json.
	Path string `mapstructure:"path" yaml:"path"`
	// Dsn is used by the SQL backends.
	Dsn string `mapstructure:"dsn" yaml:"dsn"`
}

type Security struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

type Export struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type UI struct {
	TUI bool `mapstructure:"tui" yaml:"tui"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the default value for every configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"storage.type":         "json",
		"storage.path":         ".",
		"storage.dsn":          "./softwhere.db",
		"language":             "en",
		"security.bcrypt_cost": 10,
		"export.path":          "licenses_export.csv",
		"ui.tui":               true,
		"log.level":            "warn",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Softwhere")
		default: // Linux, macOS, etc.
			configDir = "/etc/softwhere"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "softwhere")
	}

	return filepath.Join(configDir, "softwhere.yaml"), nil
}

// LoadConfig layers defaults, the first softwhere.yaml found, SOFTWHERE_*
// environment variables and command flags into a T.
//
// When no config file exists the decoded T is still returned together with a
// viper.ConfigFileNotFoundError so callers can write a default file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("softwhere")
	v.SetConfigType("yaml")

	// 3. An explicit --config path has the highest precedence for file-based configuration.
	if explicitPath != nil {
		v.SetConfigFile(*explicitPath)
	}

	// 4. Add standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 5. Read in the primary config file.
	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		notFound = nf
	} else if isEmptyFile(v.ConfigFileUsed()) {
		// An empty file carries no settings; treat it like a missing one.
		notFound = viper.ConfigFileNotFoundError{}
	}

	// 6. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("softwhere")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

func isEmptyFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}
