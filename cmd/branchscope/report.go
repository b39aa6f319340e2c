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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/branchscope/internal/config"
	bserrors "github.com/sirseerhq/branchscope/internal/errors"
	"github.com/sirseerhq/branchscope/internal/github"
	"github.com/sirseerhq/branchscope/internal/graph"
	"github.com/sirseerhq/branchscope/internal/logging"
	"github.com/sirseerhq/branchscope/internal/report"
	"github.com/sirseerhq/branchscope/internal/stats"
)

// runTimeout bounds the whole report run. A single pull request involves
// a bounded number of API calls, so anything beyond this is a stall.
const runTimeout = 5 * time.Minute

func newReportCommand() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report statistics and a branch graph for one pull request",
		Long: `Fetch one pull request's metadata from the GitHub REST API, print a
summary of its commits, file changes, and authors, and write a Graphviz
DOT graph file describing the branch history.

The three run identifiers can come from flags or the environment:

  --branch      or FEATURE_BRANCH
  --pr-number   or PR_NUM
  --repo        or REPOSITORY_NAME

Authentication is optional but recommended; unauthenticated requests hit
GitHub's low anonymous rate limit:
  - Use --github-token to provide a token directly
  - Or set GITHUB_TOKEN (configurable via github.token_env)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Debug:  cfg.Debug,
				ToFile: cfg.LogToFile,
				File:   cfg.LogFile,
			})
			if err != nil {
				return err
			}
			defer logger.Sync()

			client, err := github.NewRESTClient(cfg.Token, cfg.APIEndpoint, logger)
			if err != nil {
				return err
			}

			return runReport(ctx, cfg, client, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Branch, "branch", "", "Feature branch name (overrides FEATURE_BRANCH env var)")
	cmd.Flags().IntVar(&flags.PRNumber, "pr-number", 0, "Pull request number (overrides PR_NUM env var)")
	cmd.Flags().StringVar(&flags.Repository, "repo", "", "Repository as <owner>/<repo> (overrides REPOSITORY_NAME env var)")
	cmd.Flags().StringVar(&flags.Token, "github-token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().BoolVar(&flags.Debug, "debug-mode", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.LogToFile, "log-to-file", false, "Write logs to a file instead of stderr")
	cmd.Flags().StringVar(&flags.Topology, "graph-topology", "", "Branch graph topology: commits or files")
	cmd.Flags().StringVar(&flags.ConfigPath, "config", "", "Path to config file (default: .branchscope.yaml)")

	return cmd
}

// runReport executes the report end to end: fetch, validate, aggregate,
// print, and write the branch graph.
func runReport(ctx context.Context, cfg *config.RunConfig, client github.Client, logger *zap.Logger, out io.Writer) error {
	logger.Info("fetching repository info",
		zap.String("repo", cfg.Repository))
	info, err := client.GetRepositoryInfo(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		return err
	}

	logger.Info("fetching pull request",
		zap.String("repo", cfg.Repository),
		zap.Int("number", cfg.PRNumber))
	pr, err := client.FetchPullRequest(ctx, cfg.Owner, cfg.Repo, cfg.PRNumber)
	if err != nil {
		return err
	}

	if pr.HeadRef != cfg.FeatureBranch {
		return fmt.Errorf("pull request #%d head branch is %q, not %q: %w",
			pr.Number, pr.HeadRef, cfg.FeatureBranch, bserrors.ErrInvalidConfig)
	}

	topology := graph.Topology(cfg.Topology)
	if topology == graph.TopologyCommits && !pr.Merged {
		return fmt.Errorf("pull request #%d is not merged; the commits topology charts the merge lane: %w",
			pr.Number, bserrors.ErrInvalidConfig)
	}

	summary := stats.Summarize(pr)
	logger.Debug("aggregated pull request",
		zap.Int("commits", summary.CommitCount),
		zap.Int("files", summary.FileCount),
		zap.Int("authors", summary.UniqueAuthorCount))

	if err := report.Print(out, cfg, pr, summary, info); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	var lane []github.Commit
	if topology == graph.TopologyCommits && pr.Merged {
		lane, err = client.FetchMergeLane(ctx, cfg.Owner, cfg.Repo, pr)
		if err != nil {
			return err
		}
	}

	bg, err := graph.Build(pr, lane, topology)
	if err != nil {
		return err
	}

	path := graph.FilePath(cfg.FeatureBranch)
	if err := bg.WriteFile(path); err != nil {
		return err
	}
	logger.Info("wrote branch graph",
		zap.String("path", path),
		zap.Int("nodes", bg.NodeCount()),
		zap.Int("edges", bg.EdgeCount()))
	fmt.Fprintf(os.Stderr, "Branch graph written to %s\n", path)

	return nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, bserrors.ErrInvalidConfig),
		errors.Is(err, bserrors.ErrInvalidToken),
		errors.Is(err, bserrors.ErrNotFound),
		errors.Is(err, bserrors.ErrRateLimit):
		return 2
	case errors.Is(err, bserrors.ErrNetworkFailure):
		return 3
	default:
		return 1
	}
}
