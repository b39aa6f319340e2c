// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config resolves the per-run configuration from multiple sources
// with a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. YAML configuration file
//  4. Built-in defaults
//
// The three run identifiers (feature branch, pull request number,
// repository) are required; Load fails with ErrInvalidConfig when any of
// them is missing or malformed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	bserrors "github.com/sirseerhq/branchscope/internal/errors"
)

// Environment variables holding the required run identifiers.
const (
	EnvFeatureBranch = "FEATURE_BRANCH"
	EnvPRNumber      = "PR_NUM"
	EnvRepository    = "REPOSITORY_NAME"
)

// Flags carries the raw command-line flag values. Zero values mean the
// flag was not provided and the next configuration source applies.
type Flags struct {
	Branch     string
	PRNumber   int
	Repository string
	Token      string
	Debug      bool
	LogToFile  bool
	Topology   string
	ConfigPath string
}

// Load resolves an immutable RunConfig from flags, environment variables,
// and the optional YAML config file. If flags.ConfigPath is set, the file
// must exist and parse; otherwise the standard locations are tried:
//   - .branchscope.yaml (current directory)
//   - .branchscope.yml (current directory)
//   - ~/.branchscope/config.yaml
//
// Load is idempotent: identical inputs yield identical configurations.
func Load(flags Flags) (*RunConfig, error) {
	fileCfg := DefaultFileConfig()

	if flags.ConfigPath != "" {
		if err := loadConfigFile(flags.ConfigPath, fileCfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".branchscope.yaml",
			".branchscope.yml",
			filepath.Join(os.Getenv("HOME"), ".branchscope", "config.yaml"),
		}
		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, fileCfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(fileCfg)

	cfg := &RunConfig{
		Debug:       flags.Debug,
		LogToFile:   flags.LogToFile,
		LogFile:     fileCfg.Log.File,
		APIEndpoint: fileCfg.GitHub.APIEndpoint,
		Topology:    fileCfg.Graph.Topology,
	}

	if flags.Topology != "" {
		cfg.Topology = flags.Topology
	}
	if cfg.Topology != "commits" && cfg.Topology != "files" {
		return nil, fmt.Errorf("unknown graph topology %q (want \"commits\" or \"files\"): %w",
			cfg.Topology, bserrors.ErrInvalidConfig)
	}

	cfg.FeatureBranch = firstNonEmpty(flags.Branch, os.Getenv(EnvFeatureBranch))
	if cfg.FeatureBranch == "" {
		return nil, fmt.Errorf("feature branch is required (--branch flag or %s): %w",
			EnvFeatureBranch, bserrors.ErrInvalidConfig)
	}

	prNumber, err := resolvePRNumber(flags.PRNumber)
	if err != nil {
		return nil, err
	}
	cfg.PRNumber = prNumber

	cfg.Repository = firstNonEmpty(flags.Repository, os.Getenv(EnvRepository))
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository is required (--repo flag or %s): %w",
			EnvRepository, bserrors.ErrInvalidConfig)
	}
	owner, repo, err := SplitRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}
	cfg.Owner, cfg.Repo = owner, repo

	cfg.Token = firstNonEmpty(flags.Token, os.Getenv(fileCfg.GitHub.TokenEnv))

	return cfg, nil
}

// resolvePRNumber takes the flag value or falls back to the environment,
// enforcing a positive integer either way.
func resolvePRNumber(flagValue int) (int, error) {
	if flagValue != 0 {
		if flagValue < 0 {
			return 0, fmt.Errorf("pull request number must be positive, got %d: %w",
				flagValue, bserrors.ErrInvalidConfig)
		}
		return flagValue, nil
	}

	raw := os.Getenv(EnvPRNumber)
	if raw == "" {
		return 0, fmt.Errorf("pull request number is required (--pr-number flag or %s): %w",
			EnvPRNumber, bserrors.ErrInvalidConfig)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q: %w",
			EnvPRNumber, raw, bserrors.ErrInvalidConfig)
	}
	return n, nil
}

// SplitRepository parses an "owner/repo" string into its components.
func SplitRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format, expected <owner>/<repo>, got %q: %w",
			repository, bserrors.ErrInvalidConfig)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format, expected <owner>/<repo>, got %q: %w",
			repository, bserrors.ErrInvalidConfig)
	}

	return owner, repo, nil
}

// loadConfigFile reads and parses a YAML config file over cfg.
func loadConfigFile(path string, cfg *FileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the file config.
func applyEnvOverrides(cfg *FileConfig) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if topology := os.Getenv("BRANCHSCOPE_GRAPH_TOPOLOGY"); topology != "" {
		cfg.Graph.Topology = topology
	}
	if logFile := os.Getenv("BRANCHSCOPE_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
