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

// PullRequest represents a GitHub pull request with the metadata the
// pipeline needs: identifying fields, branch references, and the full
// commit list. It is owned by the caller for the duration of one run and
// discarded after the report and graph are produced.
type PullRequest struct {
	Number         int
	Title          string
	Author         string
	State          string
	Merged         bool
	BaseRef        string
	HeadRef        string
	BaseSHA        string
	HeadSHA        string
	MergeCommitSHA string
	Commits        []Commit
}

// Commit represents a single commit of a pull request, including the files
// it touched.
type Commit struct {
	// SHA is the full commit hash.
	SHA string

	// Author is the commit author identity: the GitHub login when the
	// commit is linked to an account, otherwise the git author name.
	Author string

	// Message is the commit message.
	Message string

	// Parents holds the parent commit SHAs.
	Parents []string

	// Files lists the changes this commit introduced. Populated by a
	// separate per-commit request; empty for mainline lane commits where
	// file detail is not needed.
	Files []FileChange
}

// FileChange represents a single file touched by a commit.
type FileChange struct {
	Filename  string
	Additions int
	Deletions int
	Status    string
}

// RepositoryInfo contains repository-level metadata for the summary block:
// popularity counters, the most recent release tags, and the top
// contributor logins in the platform's contribution order.
type RepositoryInfo struct {
	FullName     string
	Stars        int
	Forks        int
	Releases     []string
	Contributors []string
}

// Page sizes and caps for the metadata requests. Contributors and releases
// are deliberately single-page: bulk history crawling is out of scope.
const (
	commitPageSize     = 100
	recentReleaseCount = 3
	contributorCap     = 10
)
