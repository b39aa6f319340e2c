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

package github

import (
	"context"
	"fmt"

	bserrors "github.com/sirseerhq/branchscope/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// Data to return
	PR       *PullRequest
	RepoInfo *RepositoryInfo
	Lane     []Commit

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	FetchCalls int
	LaneCalls  int
	LastOwner  string
	LastRepo   string
	LastNumber int
}

// NewMockClient creates a new mock client with default test data.
func NewMockClient() *MockClient {
	return &MockClient{
		PR:       generateTestPR(),
		RepoInfo: generateTestRepoInfo(),
		Lane:     generateTestLane(),
	}
}

func (m *MockClient) fail(ctx context.Context, owner, repo string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", bserrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", bserrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return fmt.Errorf("repository %s/%s not found: %w", owner, repo, bserrors.ErrNotFound)
	}
	return m.Error
}

// FetchPullRequest implements the Client interface.
func (m *MockClient) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	m.FetchCalls++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastNumber = number

	if err := m.fail(ctx, owner, repo); err != nil {
		return nil, err
	}
	return m.PR, nil
}

// GetRepositoryInfo implements the Client interface.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	if err := m.fail(ctx, owner, repo); err != nil {
		return nil, err
	}
	return m.RepoInfo, nil
}

// FetchMergeLane implements the Client interface.
func (m *MockClient) FetchMergeLane(ctx context.Context, owner, repo string, pr *PullRequest) ([]Commit, error) {
	m.LaneCalls++
	if err := m.fail(ctx, owner, repo); err != nil {
		return nil, err
	}
	return m.Lane, nil
}

// generateTestPR creates a merged pull request with three commits touching
// five distinct files by two distinct authors.
func generateTestPR() *PullRequest {
	return &PullRequest{
		Number:         2660,
		Title:          "Update localization strings",
		Author:         "alice",
		State:          "closed",
		Merged:         true,
		BaseRef:        "master",
		HeadRef:        "l10n_master",
		BaseSHA:        "base000",
		HeadSHA:        "feat003",
		MergeCommitSHA: "merge001",
		Commits: []Commit{
			{
				SHA:     "feat001",
				Author:  "alice",
				Message: "Translate login page",
				Parents: []string{"base000"},
				Files: []FileChange{
					{Filename: "locales/de.json", Additions: 40, Deletions: 2, Status: "modified"},
					{Filename: "locales/fr.json", Additions: 38, Deletions: 1, Status: "modified"},
				},
			},
			{
				SHA:     "feat002",
				Author:  "bob",
				Message: "Translate scoreboard",
				Parents: []string{"feat001"},
				Files: []FileChange{
					{Filename: "locales/es.json", Additions: 25, Deletions: 0, Status: "added"},
					{Filename: "templates/scoreboard.html", Additions: 4, Deletions: 4, Status: "modified"},
				},
			},
			{
				SHA:     "feat003",
				Author:  "alice",
				Message: "Fix plural forms",
				Parents: []string{"feat002"},
				Files: []FileChange{
					{Filename: "locales/plurals.py", Additions: 12, Deletions: 3, Status: "modified"},
				},
			},
		},
	}
}

func generateTestRepoInfo() *RepositoryInfo {
	return &RepositoryInfo{
		FullName:     "CTFd/CTFd",
		Stars:        5200,
		Forks:        1900,
		Releases:     []string{"3.6.1", "3.6.0", "3.5.3"},
		Contributors: []string{"alice", "bob", "carol"},
	}
}

func generateTestLane() []Commit {
	return []Commit{
		{SHA: "base000", Author: "carol", Message: "Release 3.6.0", Parents: nil},
		{SHA: "main001", Author: "carol", Message: "Fix CI", Parents: []string{"base000"}},
		{SHA: "merge001", Author: "alice", Message: "Merge pull request #2660", Parents: []string{"main001", "feat003"}},
	}
}
