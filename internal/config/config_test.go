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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	bserrors "github.com/sirseerhq/branchscope/internal/errors"
)

// clearRunEnv removes the run identifier variables so tests control them
// explicitly. t.Setenv registers the restore automatically.
func clearRunEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvFeatureBranch, EnvPRNumber, EnvRepository,
		"GITHUB_TOKEN", "GITHUB_API_ENDPOINT",
		"BRANCHSCOPE_GRAPH_TOPOLOGY", "BRANCHSCOPE_LOG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func validFlags() Flags {
	return Flags{
		Branch:     "l10n_master",
		PRNumber:   2660,
		Repository: "CTFd/CTFd",
	}
}

func TestLoadDefaults(t *testing.T) {
	clearRunEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load(validFlags())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("APIEndpoint = %s, want %s", cfg.APIEndpoint, DefaultAPIEndpoint)
	}
	if cfg.Topology != DefaultTopology {
		t.Errorf("Topology = %s, want %s", cfg.Topology, DefaultTopology)
	}
	if cfg.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %s, want %s", cfg.LogFile, DefaultLogFile)
	}
	if cfg.Owner != "CTFd" || cfg.Repo != "CTFd" {
		t.Errorf("Owner/Repo = %s/%s, want CTFd/CTFd", cfg.Owner, cfg.Repo)
	}
	if cfg.Token != "" {
		t.Errorf("Token = %q, want empty", cfg.Token)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearRunEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(EnvFeatureBranch, "l10n_master")
	t.Setenv(EnvPRNumber, "2660")
	t.Setenv(EnvRepository, "CTFd/CTFd")
	t.Setenv("GITHUB_TOKEN", "ghp_secret")

	cfg, err := Load(Flags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeatureBranch != "l10n_master" {
		t.Errorf("FeatureBranch = %s, want l10n_master", cfg.FeatureBranch)
	}
	if cfg.PRNumber != 2660 {
		t.Errorf("PRNumber = %d, want 2660", cfg.PRNumber)
	}
	if cfg.Repository != "CTFd/CTFd" {
		t.Errorf("Repository = %s, want CTFd/CTFd", cfg.Repository)
	}
	if cfg.Token != "ghp_secret" {
		t.Errorf("Token = %s, want ghp_secret", cfg.Token)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		env   map[string]string
	}{
		{
			name:  "missing branch",
			flags: Flags{PRNumber: 1, Repository: "owner/repo"},
		},
		{
			name:  "missing pr number",
			flags: Flags{Branch: "feature", Repository: "owner/repo"},
		},
		{
			name:  "missing repository",
			flags: Flags{Branch: "feature", PRNumber: 1},
		},
		{
			name:  "non-numeric pr number in env",
			flags: Flags{Branch: "feature", Repository: "owner/repo"},
			env:   map[string]string{EnvPRNumber: "abc"},
		},
		{
			name:  "zero pr number in env",
			flags: Flags{Branch: "feature", Repository: "owner/repo"},
			env:   map[string]string{EnvPRNumber: "0"},
		},
		{
			name:  "negative pr number flag",
			flags: Flags{Branch: "feature", PRNumber: -3, Repository: "owner/repo"},
		},
		{
			name:  "malformed repository",
			flags: Flags{Branch: "feature", PRNumber: 1, Repository: "justaname"},
		},
		{
			name:  "empty owner",
			flags: Flags{Branch: "feature", PRNumber: 1, Repository: "/repo"},
		},
		{
			name:  "unknown topology",
			flags: Flags{Branch: "feature", PRNumber: 1, Repository: "owner/repo", Topology: "mesh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRunEnv(t)
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.flags)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !errors.Is(err, bserrors.ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearRunEnv(t)
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	// File says one endpoint and topology.
	configContent := `
github:
  api_endpoint: https://github.enterprise.com/api/v3
  token_env: GHE_TOKEN
graph:
  topology: files
log:
  file: custom.log
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Env overrides the file endpoint.
	t.Setenv("GITHUB_API_ENDPOINT", "https://env.example.com/api")
	t.Setenv("GHE_TOKEN", "ghe_secret")
	// Env provides branch; flag overrides topology over the file value.
	t.Setenv(EnvFeatureBranch, "env-branch")

	flags := Flags{
		Branch:     "flag-branch",
		PRNumber:   7,
		Repository: "owner/repo",
		Topology:   "commits",
		ConfigPath: configPath,
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeatureBranch != "flag-branch" {
		t.Errorf("FeatureBranch = %s, want flag to beat env", cfg.FeatureBranch)
	}
	if cfg.APIEndpoint != "https://env.example.com/api" {
		t.Errorf("APIEndpoint = %s, want env to beat file", cfg.APIEndpoint)
	}
	if cfg.Topology != "commits" {
		t.Errorf("Topology = %s, want flag to beat file", cfg.Topology)
	}
	if cfg.Token != "ghe_secret" {
		t.Errorf("Token = %s, want token from file-configured env var", cfg.Token)
	}
	if cfg.LogFile != "custom.log" {
		t.Errorf("LogFile = %s, want custom.log", cfg.LogFile)
	}
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	clearRunEnv(t)
	chdir(t, t.TempDir())

	flags := validFlags()
	flags.ConfigPath = "does-not-exist.yaml"
	if _, err := Load(flags); err == nil {
		t.Fatal("Load succeeded with missing explicit config file, want error")
	}
}

func TestLoadIdempotent(t *testing.T) {
	clearRunEnv(t)
	chdir(t, t.TempDir())

	first, err := Load(validFlags())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := Load(validFlags())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Load is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSplitRepository(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{input: "golang/go", wantOwner: "golang", wantRepo: "go"},
		{input: "CTFd/CTFd", wantOwner: "CTFd", wantRepo: "CTFd"},
		{input: "invalid", wantErr: true},
		{input: "too/many/slashes", wantErr: true},
		{input: "/repo", wantErr: true},
		{input: "owner/", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		owner, repo, err := SplitRepository(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitRepository(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr {
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("SplitRepository(%q) = %s/%s, want %s/%s",
					tt.input, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		}
	}
}
