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

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchPullRequest retrieves a pull request with its full commit list
	// and per-commit file changes. Requests are issued strictly
	// sequentially: PR metadata, then the commit list, then one request
	// per commit for its files.
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// GetRepositoryInfo retrieves repository metadata for the summary
	// block: stars, forks, recent releases, and top contributors.
	GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error)

	// FetchMergeLane returns the base branch commits from the pull
	// request's diverge point through its merge commit, in chronological
	// order. Only meaningful for merged pull requests.
	FetchMergeLane(ctx context.Context, owner, repo string, pr *PullRequest) ([]Commit, error)
}
