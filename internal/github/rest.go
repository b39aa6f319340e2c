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
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	bserrors "github.com/sirseerhq/branchscope/internal/errors"
	"github.com/sirseerhq/branchscope/internal/giterror"
	"github.com/sirseerhq/branchscope/pkg/version"
)

// requestTimeout bounds each individual HTTP request so a hung connection
// cannot block the run indefinitely. The run-level context deadline still
// applies on top of this.
const requestTimeout = 30 * time.Second

// secondarySleepLimit caps how long the transport will sleep on a
// secondary rate limit before surfacing the error instead.
const secondarySleepLimit = 30 * time.Second

// RESTClient implements the Client interface against the GitHub REST API.
type RESTClient struct {
	client    *github.Client
	inspector giterror.Inspector
	log       *zap.Logger
}

// NewRESTClient creates a REST client authenticated with the given token.
// An empty token yields anonymous access, which works for public
// repositories at a reduced rate limit. A non-default endpoint switches
// the client to a GitHub Enterprise deployment.
func NewRESTClient(token, endpoint string, logger *zap.Logger) (*RESTClient, error) {
	waiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(secondarySleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}

	client := github.NewClient(httpClient)
	client.UserAgent = "branchscope/" + version.Version
	if endpoint != "" && endpoint != "https://api.github.com" {
		client, err = client.WithEnterpriseURLs(endpoint, endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid API endpoint %q: %w", endpoint, err)
		}
	}

	return &RESTClient{
		client:    client,
		inspector: giterror.NewInspector(),
		log:       logger,
	}, nil
}

// FetchPullRequest retrieves the pull request, its commit list, and the
// file changes of every commit. Calls are strictly sequential.
func (c *RESTClient) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	c.log.Info("fetching pull request",
		zap.String("repository", owner+"/"+repo), zap.Int("number", number))

	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	result := &PullRequest{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Author:         pr.GetUser().GetLogin(),
		State:          pr.GetState(),
		Merged:         pr.GetMerged(),
		BaseRef:        pr.GetBase().GetRef(),
		HeadRef:        pr.GetHead().GetRef(),
		BaseSHA:        pr.GetBase().GetSHA(),
		HeadSHA:        pr.GetHead().GetSHA(),
		MergeCommitSHA: pr.GetMergeCommitSHA(),
	}

	opts := &github.ListOptions{PerPage: commitPageSize}
	for {
		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, c.mapError(err, owner, repo)
		}
		for _, rc := range commits {
			result.Commits = append(result.Commits, convertCommit(rc))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	c.log.Debug("fetched commit list", zap.Int("commits", len(result.Commits)))

	for i := range result.Commits {
		full, _, err := c.client.Repositories.GetCommit(ctx, owner, repo, result.Commits[i].SHA, nil)
		if err != nil {
			return nil, c.mapError(err, owner, repo)
		}
		for _, f := range full.Files {
			result.Commits[i].Files = append(result.Commits[i].Files, FileChange{
				Filename:  f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Status:    f.GetStatus(),
			})
		}
		c.log.Debug("fetched commit files",
			zap.String("sha", result.Commits[i].SHA),
			zap.Int("files", len(result.Commits[i].Files)))
	}

	return result, nil
}

// GetRepositoryInfo retrieves repository metadata, the most recent release
// tags, and the top contributors. Releases and contributors are single
// requests; the contributors endpoint already orders by contribution count.
func (c *RESTClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	c.log.Info("fetching repository info", zap.String("repository", owner+"/"+repo))

	r, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	info := &RepositoryInfo{
		FullName: r.GetFullName(),
		Stars:    r.GetStargazersCount(),
		Forks:    r.GetForksCount(),
	}

	releases, _, err := c.client.Repositories.ListReleases(ctx, owner, repo,
		&github.ListOptions{PerPage: recentReleaseCount})
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	for _, rel := range releases {
		info.Releases = append(info.Releases, rel.GetTagName())
	}

	contributors, _, err := c.client.Repositories.ListContributors(ctx, owner, repo,
		&github.ListContributorsOptions{
			ListOptions: github.ListOptions{PerPage: contributorCap},
		})
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	for _, contributor := range contributors {
		info.Contributors = append(info.Contributors, contributor.GetLogin())
	}

	return info, nil
}

// FetchMergeLane reconstructs the base branch lane of a merged pull
// request: the diverge commit, any commits that landed on the base branch
// in between, and the merge commit itself.
func (c *RESTClient) FetchMergeLane(ctx context.Context, owner, repo string, pr *PullRequest) ([]Commit, error) {
	c.log.Info("fetching merge lane",
		zap.String("base", pr.BaseRef), zap.String("head", pr.HeadRef))

	cmp, _, err := c.client.Repositories.CompareCommits(ctx, owner, repo, pr.BaseSHA, pr.HeadSHA, nil)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	diverge := cmp.GetMergeBaseCommit()
	if diverge == nil {
		return nil, fmt.Errorf("no merge base between %s and %s", pr.BaseRef, pr.HeadRef)
	}
	lane := []Commit{convertCommit(diverge)}

	// The compare window spans everything reachable from the merge commit
	// but not the diverge point, which includes the feature branch commits.
	// Only base branch commits belong in the lane.
	feature := make(map[string]struct{}, len(pr.Commits))
	for _, fc := range pr.Commits {
		feature[fc.SHA] = struct{}{}
	}

	window, _, err := c.client.Repositories.CompareCommits(ctx, owner, repo,
		diverge.GetSHA(), pr.MergeCommitSHA, nil)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	for _, rc := range window.Commits {
		if rc.GetSHA() == pr.MergeCommitSHA {
			continue
		}
		if _, ok := feature[rc.GetSHA()]; ok {
			continue
		}
		lane = append(lane, convertCommit(rc))
	}

	merge, _, err := c.client.Repositories.GetCommit(ctx, owner, repo, pr.MergeCommitSHA, nil)
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}
	lane = append(lane, convertCommit(merge))

	c.log.Debug("merge lane assembled", zap.Int("commits", len(lane)))
	return lane, nil
}

// convertCommit maps a REST commit to the domain model. File changes are
// attached separately where they are needed.
func convertCommit(rc *github.RepositoryCommit) Commit {
	author := rc.GetAuthor().GetLogin()
	if author == "" {
		author = rc.GetCommit().GetAuthor().GetName()
	}

	commit := Commit{
		SHA:     rc.GetSHA(),
		Author:  author,
		Message: rc.GetCommit().GetMessage(),
	}
	for _, parent := range rc.Parents {
		commit.Parents = append(commit.Parents, parent.GetSHA())
	}
	return commit
}

// mapError maps REST API errors to the application's sentinel errors with
// actionable messages.
func (c *RESTClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit.
	if c.inspector.IsRateLimitError(err) {
		if hint, ok := giterror.RetryAfterHint(err); ok {
			return fmt.Errorf("GitHub API rate limit exceeded, retry after %s: %w",
				hint.Round(time.Second), bserrors.ErrRateLimit)
		}
		return fmt.Errorf("GitHub API rate limit exceeded, please wait before retrying: %w",
			bserrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed, provide a valid token via --github-token or GITHUB_TOKEN: %w",
			bserrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository %s/%s or the requested pull request was not found, check the name and your access permissions: %w",
			owner, repo, bserrors.ErrNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to the GitHub API: %v: %w",
			err, bserrors.ErrNetworkFailure)
	}

	return fmt.Errorf("github api request failed: %w", err)
}
