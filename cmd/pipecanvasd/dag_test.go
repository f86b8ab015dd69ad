package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nodes(ids ...string) []parseNode {
	out := make([]parseNode, len(ids))
	for i, id := range ids {
		out[i] = parseNode{ID: id}
	}
	return out
}

func edge(source, target string) parseEdge {
	return parseEdge{ID: "e" + source + "-" + target, Source: source, Target: target}
}

// TestIsDAG_Linear tests a simple chain.
func TestIsDAG_Linear(t *testing.T) {
	assert.True(t, isDAG(
		nodes("a", "b", "c"),
		[]parseEdge{edge("a", "b"), edge("b", "c")},
	))
}

// TestIsDAG_Empty tests the trivial graphs.
func TestIsDAG_Empty(t *testing.T) {
	assert.True(t, isDAG(nil, nil))
	assert.True(t, isDAG(nodes("a"), nil))
}

// TestIsDAG_SelfLoop tests a node pointing at itself.
func TestIsDAG_SelfLoop(t *testing.T) {
	assert.False(t, isDAG(nodes("a"), []parseEdge{edge("a", "a")}))
}

// TestIsDAG_Cycle tests a three-node cycle.
func TestIsDAG_Cycle(t *testing.T) {
	assert.False(t, isDAG(
		nodes("a", "b", "c"),
		[]parseEdge{edge("a", "b"), edge("b", "c"), edge("c", "a")},
	))
}

// TestIsDAG_Diamond tests converging paths, which share vertices but
// form no cycle.
func TestIsDAG_Diamond(t *testing.T) {
	assert.True(t, isDAG(
		nodes("a", "b", "c", "d"),
		[]parseEdge{edge("a", "b"), edge("a", "c"), edge("b", "d"), edge("c", "d")},
	))
}

// TestIsDAG_ParallelEdges tests duplicate edges between the same pair,
// which the editor permits and which form no cycle.
func TestIsDAG_ParallelEdges(t *testing.T) {
	assert.True(t, isDAG(
		nodes("a", "b"),
		[]parseEdge{edge("a", "b"), edge("a", "b")},
	))
}

// TestIsDAG_DisconnectedComponents tests that a cycle anywhere in the
// graph fails the whole graph.
func TestIsDAG_DisconnectedComponents(t *testing.T) {
	assert.False(t, isDAG(
		nodes("a", "b", "x", "y"),
		[]parseEdge{edge("a", "b"), edge("x", "y"), edge("y", "x")},
	))
}

// TestIsDAG_UnknownSourceIgnored tests that edges from undeclared
// nodes do not participate in the cycle check.
func TestIsDAG_UnknownSourceIgnored(t *testing.T) {
	assert.True(t, isDAG(
		nodes("a", "b"),
		[]parseEdge{edge("a", "b"), edge("ghost", "a")},
	))
}

// TestIsDAG_UnknownTargetTerminal tests that an edge into an
// undeclared node is treated as reaching a dead end.
func TestIsDAG_UnknownTargetTerminal(t *testing.T) {
	assert.True(t, isDAG(
		nodes("a"),
		[]parseEdge{edge("a", "ghost")},
	))
}

// TestIsDAG_LargeChain tests that the iterative DFS handles depth a
// recursive version might not.
func TestIsDAG_LargeChain(t *testing.T) {
	const n = 10000
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "n" + strconv.Itoa(i)
	}
	edges := make([]parseEdge, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, edge(ids[i], ids[i+1]))
	}
	assert.True(t, isDAG(nodes(ids...), edges))

	edges = append(edges, edge(ids[n-1], ids[0]))
	assert.False(t, isDAG(nodes(ids...), edges))
}
