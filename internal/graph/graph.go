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

// Package graph builds a Graphviz DOT description of a pull request's
// branch relationships and writes it to disk for rendering by an external
// layout tool. The node/edge semantics are a policy choice: the commits
// topology draws the feature branch lineage alongside the base branch
// lane, the files topology draws commit-to-file touch edges.
package graph

import (
	"fmt"
	"os"
	"strings"

	"github.com/emicklei/dot"

	bserrors "github.com/sirseerhq/branchscope/internal/errors"
	"github.com/sirseerhq/branchscope/internal/github"
)

// Topology selects the branch graph semantics.
type Topology string

const (
	// TopologyCommits draws one node per commit with lineage edges, the
	// feature branch chain connected into the base branch lane.
	TopologyCommits Topology = "commits"

	// TopologyFiles draws one node per commit and one per distinct file,
	// with commit-to-file edges labeled by the change size.
	TopologyFiles Topology = "files"
)

// DotSuffix is the file extension of the emitted graph description.
const DotSuffix = ".dot"

// BranchGraph is an immutable node/edge description of a pull request's
// branch relationships, serialized once via String or WriteFile.
type BranchGraph struct {
	g     *dot.Graph
	nodes int
	edges int
}

// Build constructs a BranchGraph for the pull request. The lane holds the
// base branch commits from diverge point to merge commit; it is only used
// by the commits topology and may be empty for unmerged pull requests.
func Build(pr *github.PullRequest, lane []github.Commit, topology Topology) (*BranchGraph, error) {
	bg := &BranchGraph{g: dot.NewGraph(dot.Directed)}
	bg.g.ID(graphID(pr.HeadRef))
	bg.g.Attr("rankdir", "LR")

	switch topology {
	case TopologyCommits:
		bg.buildCommitLineage(pr, lane)
	case TopologyFiles:
		bg.buildFileTouch(pr)
	default:
		return nil, fmt.Errorf("unknown graph topology %q", topology)
	}

	return bg, nil
}

// buildCommitLineage mirrors the original branch tree: the feature branch
// commits chained in order, and when a base branch lane is available, the
// lane chained in order with edges from its first commit into the feature
// chain and from the last feature commit back into the lane.
func (bg *BranchGraph) buildCommitLineage(pr *github.PullRequest, lane []github.Commit) {
	feature := make([]dot.Node, 0, len(pr.Commits))
	for _, c := range pr.Commits {
		feature = append(feature, bg.commitNode(c, pr.HeadRef))
	}
	bg.chain(feature)

	if len(lane) == 0 || len(feature) == 0 {
		return
	}

	main := make([]dot.Node, 0, len(lane))
	for _, c := range lane {
		main = append(main, bg.commitNode(c, pr.BaseRef))
	}
	bg.chain(main)

	bg.edge(main[0], feature[0])
	bg.edge(feature[len(feature)-1], main[len(main)-1])
}

// buildFileTouch draws a commit node per commit, a box node per distinct
// file, and an edge per file change labeled with its size.
func (bg *BranchGraph) buildFileTouch(pr *github.PullRequest) {
	fileNodes := make(map[string]dot.Node)

	for _, c := range pr.Commits {
		commitNode := bg.commitNode(c, pr.HeadRef)
		for _, f := range c.Files {
			fileNode, ok := fileNodes[f.Filename]
			if !ok {
				fileNode = bg.g.Node("file:" + f.Filename).
					Attr("label", f.Filename).
					Attr("shape", "box")
				fileNodes[f.Filename] = fileNode
				bg.nodes++
			}
			bg.edge(commitNode, fileNode).Attr("label", fmt.Sprintf("+%d/-%d", f.Additions, f.Deletions))
		}
	}
}

// commitNode returns the node for a commit, creating it on first use. A
// SHA seen before keeps its existing node and label, so a commit that
// appears in both the feature chain and the base lane is declared once
// and the node count stays in step with the declarations written.
func (bg *BranchGraph) commitNode(c github.Commit, branch string) dot.Node {
	if existing, ok := bg.g.FindNodeById(c.SHA); ok {
		return existing
	}
	bg.nodes++
	return bg.g.Node(c.SHA).
		Attr("label", fmt.Sprintf("commit %s\n%s", c.SHA, branch)).
		Attr("shape", "circle")
}

func (bg *BranchGraph) chain(nodes []dot.Node) {
	for i := 1; i < len(nodes); i++ {
		bg.edge(nodes[i-1], nodes[i])
	}
}

func (bg *BranchGraph) edge(from, to dot.Node) dot.Edge {
	bg.edges++
	return bg.g.Edge(from, to)
}

// NodeCount returns the number of node declarations in the graph.
func (bg *BranchGraph) NodeCount() int { return bg.nodes }

// EdgeCount returns the number of edge declarations in the graph.
func (bg *BranchGraph) EdgeCount() int { return bg.edges }

// String serializes the graph in DOT syntax.
func (bg *BranchGraph) String() string { return bg.g.String() }

// WriteFile writes the DOT description to path. The caller owns the path
// choice; FilePath produces the conventional one.
func (bg *BranchGraph) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v: %w", path, err, bserrors.ErrGraphWrite)
	}

	if _, err := file.WriteString(bg.String()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %v: %w", path, err, bserrors.ErrGraphWrite)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %v: %w", path, err, bserrors.ErrGraphWrite)
	}

	return nil
}

// FilePath returns the conventional graph file name for a feature branch,
// in the current working directory. Path separators in branch names are
// flattened so the file stays in the working directory.
func FilePath(featureBranch string) string {
	return "branch_" + strings.ReplaceAll(featureBranch, "/", "_") + "_graph" + DotSuffix
}

// graphID derives a DOT-safe graph identifier from the branch name.
func graphID(branch string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, branch)
	return "branch_" + id
}
