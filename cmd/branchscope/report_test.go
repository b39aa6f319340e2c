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

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sirseerhq/branchscope/internal/config"
	bserrors "github.com/sirseerhq/branchscope/internal/errors"
	"github.com/sirseerhq/branchscope/internal/github"
	"github.com/sirseerhq/branchscope/internal/graph"
)

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

func testRunConfig() *config.RunConfig {
	return &config.RunConfig{
		FeatureBranch: "l10n_master",
		PRNumber:      2660,
		Repository:    "CTFd/CTFd",
		Owner:         "CTFd",
		Repo:          "CTFd",
		Topology:      "commits",
	}
}

func TestRunReport(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := testRunConfig()
	client := github.NewMockClient()
	var out bytes.Buffer

	if err := runReport(context.Background(), cfg, client, zap.NewNop(), &out); err != nil {
		t.Fatalf("runReport failed: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"Pull Request #2660 (l10n_master -> master) in CTFd/CTFd",
		"commits=3",
		"files_changed=5",
		"additions=119",
		"deletions=10",
		"unique_authors=2",
		"Repository (CTFd/CTFd) Summary:",
		"num_contributors=3",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	if client.FetchCalls != 1 {
		t.Errorf("FetchCalls = %d, want 1", client.FetchCalls)
	}
	if client.LaneCalls != 1 {
		t.Errorf("LaneCalls = %d, want 1", client.LaneCalls)
	}
	if client.LastOwner != "CTFd" || client.LastRepo != "CTFd" || client.LastNumber != 2660 {
		t.Errorf("unexpected fetch args: %s/%s#%d", client.LastOwner, client.LastRepo, client.LastNumber)
	}

	data, err := os.ReadFile(graph.FilePath("l10n_master"))
	if err != nil {
		t.Fatalf("branch graph file not written: %v", err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("graph file is not a digraph:\n%s", dot)
	}
	for _, sha := range []string{"feat001", "feat002", "feat003", "base000", "merge001"} {
		if !strings.Contains(dot, sha) {
			t.Errorf("graph file missing commit %s:\n%s", sha, dot)
		}
	}
}

func TestRunReportFilesTopology(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := testRunConfig()
	cfg.Topology = "files"
	client := github.NewMockClient()
	var out bytes.Buffer

	if err := runReport(context.Background(), cfg, client, zap.NewNop(), &out); err != nil {
		t.Fatalf("runReport failed: %v", err)
	}

	// The files topology charts commit-to-file edges; no merge lane needed.
	if client.LaneCalls != 0 {
		t.Errorf("LaneCalls = %d, want 0", client.LaneCalls)
	}

	data, err := os.ReadFile(graph.FilePath("l10n_master"))
	if err != nil {
		t.Fatalf("branch graph file not written: %v", err)
	}
	if !strings.Contains(string(data), "locales/de.json") {
		t.Errorf("graph file missing file node:\n%s", data)
	}
}

func TestRunReportBranchMismatch(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := testRunConfig()
	cfg.FeatureBranch = "some-other-branch"

	err := runReport(context.Background(), cfg, github.NewMockClient(), zap.NewNop(), &bytes.Buffer{})
	if !errors.Is(err, bserrors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, statErr := os.Stat(graph.FilePath("some-other-branch")); statErr == nil {
		t.Error("graph file should not be written on validation failure")
	}
}

func TestRunReportUnmergedCommitsTopology(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := testRunConfig()
	client := github.NewMockClient()
	client.PR.Merged = false
	client.PR.State = "open"

	err := runReport(context.Background(), cfg, client, zap.NewNop(), &bytes.Buffer{})
	if !errors.Is(err, bserrors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunReportNotFound(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := testRunConfig()
	cfg.Owner, cfg.Repo = "nonexistent", "repo"
	cfg.Repository = "nonexistent/repo"

	err := runReport(context.Background(), cfg, github.NewMockClient(), zap.NewNop(), &bytes.Buffer{})
	if !errors.Is(err, bserrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, statErr := os.Stat(graph.FilePath("l10n_master")); statErr == nil {
		t.Error("graph file should not be written when the repository is missing")
	}
}

func TestRunReportNetworkFailure(t *testing.T) {
	chdir(t, t.TempDir())

	client := github.NewMockClient()
	client.ShouldFailNetwork = true

	err := runReport(context.Background(), testRunConfig(), client, zap.NewNop(), &bytes.Buffer{})
	if !errors.Is(err, bserrors.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"nil error", nil, 0},
		{"invalid config", bserrors.ErrInvalidConfig, 2},
		{"invalid token", bserrors.ErrInvalidToken, 2},
		{"not found", bserrors.ErrNotFound, 2},
		{"rate limit", bserrors.ErrRateLimit, 2},
		{"network failure", bserrors.ErrNetworkFailure, 3},
		{"wrapped network failure", fmt.Errorf("request failed: %w", bserrors.ErrNetworkFailure), 3},
		{"graph write", bserrors.ErrGraphWrite, 1},
		{"generic error", errors.New("something broke"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToExitCode(tt.err)
			if got != tt.wantCode {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.wantCode)
			}
		})
	}
}
