// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/softwhere/softwhere/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestLoadConfig_NoFile_ReturnsDefaultsAndNotFound(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)

	got, err := config.LoadConfig[config.Config](&cobra.Command{}, config.Defaults(), nil)
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
	if got.Storage.Type != "json" || got.Storage.Path != "." {
		t.Fatalf("unexpected storage defaults: %+v", got.Storage)
	}
	if got.Security.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", got.Security.BcryptCost)
	}
	if !got.UI.TUI {
		t.Fatalf("expected tui enabled by default")
	}
	if got.Export.Path != "licenses_export.csv" {
		t.Fatalf("unexpected export path %q", got.Export.Path)
	}
}

func TestLoadConfig_EmptyCandidate_TreatedAsNotFound(t *testing.T) {
	tmp := t.TempDir()
	emptyPath := filepath.Join(tmp, "softwhere.yaml")
	if err := os.WriteFile(emptyPath, nil, 0o600); err != nil {
		t.Fatalf("create empty file: %v", err)
	}

	_, err := config.LoadConfig[config.Config](&cobra.Command{}, config.Defaults(), &emptyPath)
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		t.Fatalf("expected ConfigFileNotFoundError, got: %T %v", err, err)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "storage:\n  type: sqlite\n  dsn: /tmp/x.db\nlanguage: de\nsecurity:\n  bcrypt_cost: 12\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := config.LoadConfig[config.Config](&cobra.Command{}, config.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Storage.Type != "sqlite" || got.Storage.Dsn != "/tmp/x.db" {
		t.Fatalf("unexpected storage: %+v", got.Storage)
	}
	if got.Language != "de" {
		t.Fatalf("expected de, got %q", got.Language)
	}
	if got.Security.BcryptCost != 12 {
		t.Fatalf("expected cost 12, got %d", got.Security.BcryptCost)
	}
	// Unset keys keep their defaults.
	if got.Export.Path != "licenses_export.csv" {
		t.Fatalf("expected default export path, got %q", got.Export.Path)
	}
}

func TestLoadConfig_BrokenConfig_ReturnsParseError(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "broken.yaml")
	if err := os.WriteFile(file, []byte("storage: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := config.LoadConfig[config.Config](&cobra.Command{}, config.Defaults(), &file)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		t.Fatalf("parse error must not look like not-found")
	}
}

// Environment variables use the SOFTWHERE_ prefix with underscores for dots.
func TestLoadConfig_EnvVarParsing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)
	t.Setenv("SOFTWHERE_STORAGE_TYPE", "postgres")
	t.Setenv("SOFTWHERE_STORAGE_DSN", "postgresql://envuser@/envdb")
	t.Setenv("SOFTWHERE_LANGUAGE", "de")

	got, _ := config.LoadConfig[config.Config](&cobra.Command{}, config.Defaults(), nil)
	if got.Storage.Type != "postgres" {
		t.Fatalf("expected postgres from env, got %q", got.Storage.Type)
	}
	if got.Storage.Dsn != "postgresql://envuser@/envdb" {
		t.Fatalf("expected env DSN, got %q", got.Storage.Dsn)
	}
	if got.Language != "de" {
		t.Fatalf("expected de from env, got %q", got.Language)
	}
}

func TestLoadConfig_FlagBindingOverridesEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)
	t.Setenv("SOFTWHERE_LANGUAGE", "fr")

	cmd := &cobra.Command{}
	cmd.Flags().String("language", "", "language")
	if err := cmd.Flags().Set("language", "de"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	got, _ := config.LoadConfig[config.Config](cmd, config.Defaults(), nil)
	if got.Language != "de" {
		t.Fatalf("expected de from flag (not fr from env), got %q", got.Language)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	c := config.Config{Language: "en"}
	c.Storage.Type = "json"
	c.Storage.Path = "/srv/licenses"

	if err := config.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "/srv/licenses") {
		t.Fatalf("expected storage path in config, got: %s", data)
	}
}

func TestGetConfigPath(t *testing.T) {
	p, err := config.GetConfigPath(true)
	if err != nil {
		t.Fatalf("GetConfigPath(system): %v", err)
	}
	if filepath.Base(p) != "softwhere.yaml" {
		t.Fatalf("unexpected file name in %q", p)
	}
}
