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

// Package stats aggregates pull request records into summary counters.
package stats

import "github.com/sirseerhq/branchscope/internal/github"

// SummaryStats holds the aggregated counters for a single pull request.
// Derived once by Summarize and read-only afterwards.
type SummaryStats struct {
	CommitCount       int
	FileCount         int
	TotalAdditions    int
	TotalDeletions    int
	UniqueAuthorCount int
}

// Summarize walks the pull request's commits and their file changes in a
// single pass and accumulates the summary counters. A pull request with
// zero commits yields all-zero stats. Deterministic: the outputs are
// counts and set cardinalities, so commit ordering does not matter.
func Summarize(pr *github.PullRequest) SummaryStats {
	var s SummaryStats
	authors := make(map[string]struct{})

	for _, commit := range pr.Commits {
		s.CommitCount++
		authors[commit.Author] = struct{}{}
		for _, file := range commit.Files {
			s.FileCount++
			s.TotalAdditions += file.Additions
			s.TotalDeletions += file.Deletions
		}
	}

	s.UniqueAuthorCount = len(authors)
	return s
}
