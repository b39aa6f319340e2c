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

// Package main implements the branchscope command-line interface.
// This tool inspects a single GitHub pull request, prints aggregate
// statistics about its commits and file changes, and writes a Graphviz
// DOT graph of the branch history for external rendering.
//
// The CLI supports:
//   - Run identifiers from flags or environment variables
//   - YAML configuration files with flag/env precedence
//   - Two branch graph topologies (commit lineage or file touches)
//   - GitHub token authentication via flag or environment variable
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	branchscope report [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	branchscope report --repo CTFd/CTFd --pr-number 2660 --branch l10n_master
//
// Exit codes:
//   - 0: Success
//   - 1: General error (including graph file write failures)
//   - 2: Configuration, authentication, not-found, or rate limit error
//   - 3: Network error
package main
