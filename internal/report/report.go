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

// Package report renders the aggregated run results as a fixed,
// human-readable block. Pure formatting; the only failure mode is the
// destination writer itself.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirseerhq/branchscope/internal/config"
	"github.com/sirseerhq/branchscope/internal/github"
	"github.com/sirseerhq/branchscope/internal/stats"
)

// Print writes the pull request summary and the repository summary to w in
// a fixed multi-line layout.
func Print(w io.Writer, cfg *config.RunConfig, pr *github.PullRequest, s stats.SummaryStats, info *github.RepositoryInfo) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Pull Request #%d (%s -> %s) in %s\n",
		pr.Number, pr.HeadRef, pr.BaseRef, cfg.Repository)
	if pr.Title != "" {
		fmt.Fprintf(&b, "  title=%q\n", pr.Title)
	}
	fmt.Fprintf(&b, "  author=%s\n", pr.Author)
	fmt.Fprintf(&b, "  commits=%d\n", s.CommitCount)
	fmt.Fprintf(&b, "  files_changed=%d\n", s.FileCount)
	fmt.Fprintf(&b, "  additions=%d\n", s.TotalAdditions)
	fmt.Fprintf(&b, "  deletions=%d\n", s.TotalDeletions)
	fmt.Fprintf(&b, "  unique_authors=%d\n", s.UniqueAuthorCount)

	if info != nil {
		fmt.Fprintf(&b, "Repository (%s) Summary:\n", info.FullName)
		fmt.Fprintf(&b, "  releases=[%s]\n", strings.Join(info.Releases, ", "))
		fmt.Fprintf(&b, "  forks=%d\n", info.Forks)
		fmt.Fprintf(&b, "  stars=%d\n", info.Stars)
		fmt.Fprintf(&b, "  num_contributors=%d\n", len(info.Contributors))
		fmt.Fprintf(&b, "  top_contributors=[%s]\n", strings.Join(info.Contributors, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
