// Copyright 2026 Sitesmith Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfigFileName is the name of the config file (anvil.yaml).
const DefaultConfigFileName = "anvil"

// Config holds all CLI configuration.
// Priority: CLI flags > config file > env vars > defaults.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Context    ContextConfig    `mapstructure:"context"`
	Validation ValidationConfig `mapstructure:"validation"`
	Tools      ToolsConfig      `mapstructure:"tools"`
}

// ToolsConfig configures tool execution.
type ToolsConfig struct {
	// DefaultTimeoutSeconds bounds tool execution when the --timeout flag
	// is not given. Zero disables the bound.
	DefaultTimeoutSeconds int `mapstructure:"default_timeout_seconds"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}

// ContextConfig configures the dynamic context builder.
type ContextConfig struct {
	MaxTokens  int `mapstructure:"max_tokens"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// ValidationConfig configures the duplicate-detection thresholds.
type ValidationConfig struct {
	DuplicateOverlap float64 `mapstructure:"duplicate_overlap"`
	ExtendOverlap    float64 `mapstructure:"extend_overlap"`
}

// DataDir returns the anvil data directory, honoring ANVIL_DATA_DIR.
func DataDir() string {
	if dir := os.Getenv("ANVIL_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".anvil")
}

// loadConfig reads configuration from file, environment, and defaults.
func loadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(DataDir(), "anvil.db"))
	v.SetDefault("logging.debug", false)
	v.SetDefault("context.max_tokens", 0)
	v.SetDefault("context.ttl_seconds", 300)
	v.SetDefault("validation.duplicate_overlap", 80.0)
	v.SetDefault("validation.extend_overlap", 50.0)
	v.SetDefault("tools.default_timeout_seconds", 30)

	v.SetEnvPrefix("ANVIL")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DataDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
