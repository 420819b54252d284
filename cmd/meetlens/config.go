// Copyright 2025 The Meetlens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
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
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultConfigDir  = ".meetlens"
	defaultConfigFile = "config.yaml"
	defaultDBDir      = "db"
)

// cliConfig holds the CLI configuration settings. Values are loaded in
// this order, later sources overriding earlier: defaults, config file,
// command-line flags.
type cliConfig struct {
	// DBPath is the BadgerDB directory holding documents, extractions,
	// chunk embeddings, and chat history.
	DBPath string `yaml:"db_path"`

	// Host is the base URL of the OpenAI-compatible service used for both
	// generation and embeddings. EmbeddingHost/GeneratorHost override it
	// per service.
	Host          string `yaml:"host,omitempty"`
	EmbeddingHost string `yaml:"embedding_host,omitempty"`
	GeneratorHost string `yaml:"generator_host,omitempty"`

	// EmbeddingModel and GeneratorModel identify the models to use.
	EmbeddingModel string `yaml:"embedding_model,omitempty"`
	GeneratorModel string `yaml:"generator_model,omitempty"`

	// ChunkSize and ChunkOverlap control how transcripts are split before
	// embedding. Zero means the built-in defaults.
	ChunkSize    int `yaml:"chunk_size,omitempty"`
	ChunkOverlap int `yaml:"chunk_overlap,omitempty"`
}

// defaultCLIConfig returns the configuration used when no config file or
// flags are present.
func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		DBPath: filepath.Join("~", defaultConfigDir, defaultDBDir),
	}
}

// configPath returns the config file location: $MEETLENS_CONFIG if set,
// otherwise ~/.meetlens/config.yaml.
func configPath() string {
	if p := os.Getenv("MEETLENS_CONFIG"); p != "" {
		return expandPath(p)
	}
	return filepath.Join("~", defaultConfigDir, defaultConfigFile)
}

// loadCLIConfig loads the configuration from the given path, falling back
// to defaults when the file does not exist. An empty path means the
// default location.
func loadCLIConfig(path string) (*cliConfig, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	path = expandPath(path)

	cfg := defaultCLIConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultCLIConfig().DBPath
	}

	return cfg, nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
