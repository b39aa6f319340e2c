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

// Package config types define the configuration structures used throughout
// branchscope. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// FileConfig represents the optional YAML configuration file. It carries
// settings that rarely change between runs, such as the API endpoint for
// GitHub Enterprise deployments or the preferred graph topology.
type FileConfig struct {
	GitHub GitHubConfig `yaml:"github"`
	Graph  GraphConfig  `yaml:"graph"`
	Log    LogConfig    `yaml:"log"`
}

// GitHubConfig contains GitHub-specific settings including the API endpoint
// and the name of the environment variable holding the access token. This
// allows easy configuration for GitHub Enterprise deployments.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
}

// GraphConfig controls how the branch graph is built. Topology selects the
// node/edge semantics of the emitted DOT file.
type GraphConfig struct {
	Topology string `yaml:"topology"`
}

// LogConfig contains logging settings. File is the path the run log is
// written to when logging to a file is enabled.
type LogConfig struct {
	File string `yaml:"file"`
}

// RunConfig is the fully resolved configuration for a single run. It is
// constructed once by Load and never mutated afterwards; every component
// receives it explicitly instead of reading process-wide state.
type RunConfig struct {
	// FeatureBranch is the head branch of the pull request under analysis.
	FeatureBranch string

	// PRNumber is the pull request number. Always positive.
	PRNumber int

	// Repository is the full "owner/repo" name. Owner and Repo hold the
	// split components.
	Repository string
	Owner      string
	Repo       string

	// Token is the GitHub access token, empty for anonymous access to
	// public repositories.
	Token string

	// Debug raises the log level to debug.
	Debug bool

	// LogToFile redirects the run log to LogFile instead of stderr.
	LogToFile bool
	LogFile   string

	// Topology selects the branch graph semantics ("commits" or "files").
	Topology string

	// APIEndpoint is the GitHub REST API base URL.
	APIEndpoint string
}

// Default values applied before any configuration source is read.
const (
	DefaultAPIEndpoint = "https://api.github.com"
	DefaultTokenEnv    = "GITHUB_TOKEN"
	DefaultTopology    = "commits"
	DefaultLogFile     = "branchscope.log"
)

// DefaultFileConfig returns a FileConfig with built-in defaults suitable
// for public GitHub.com usage.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		GitHub: GitHubConfig{
			APIEndpoint: DefaultAPIEndpoint,
			TokenEnv:    DefaultTokenEnv,
		},
		Graph: GraphConfig{
			Topology: DefaultTopology,
		},
		Log: LogConfig{
			File: DefaultLogFile,
		},
	}
}
