package main

// parseNode is the subset of a submitted node the daemon inspects.
type parseNode struct {
	ID string `json:"id"`
}

// parseEdge is the subset of a submitted edge the daemon inspects.
type parseEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// parseRequest is the body of POST /pipelines/parse. Extra fields on
// nodes and edges (positions, data, handles) are ignored.
type parseRequest struct {
	Nodes []parseNode `json:"nodes"`
	Edges []parseEdge `json:"edges"`
}

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current DFS path
	black              // fully explored
)

// isDAG reports whether the submitted graph is acyclic.
//
// Edges whose source is not a declared node are skipped; edges to an
// undeclared target still count as reaching a terminal vertex. A back
// edge to a gray vertex is a cycle.
func isDAG(nodes []parseNode, edges []parseEdge) bool {
	adj := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = nil
	}
	for _, e := range edges {
		if _, ok := adj[e.Source]; ok {
			adj[e.Source] = append(adj[e.Source], e.Target)
		}
	}

	colors := make(map[string]color, len(adj))
	for root := range adj {
		if colors[root] != white {
			continue
		}
		if hasCycleFrom(root, adj, colors) {
			return false
		}
	}
	return true
}

// hasCycleFrom runs an iterative DFS from root, coloring vertices as
// it goes. The stack keeps each vertex with an index into its
// adjacency list so vertices are blackened only after all descendants
// are explored.
func hasCycleFrom(root string, adj map[string][]string, colors map[string]color) bool {
	type frame struct {
		id   string
		next int
	}

	stack := []frame{{id: root}}
	colors[root] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := adj[top.id]

		if top.next >= len(neighbors) {
			colors[top.id] = black
			stack = stack[:len(stack)-1]
			continue
		}

		neighbor := neighbors[top.next]
		top.next++

		switch colors[neighbor] {
		case gray:
			return true
		case white:
			colors[neighbor] = gray
			stack = append(stack, frame{id: neighbor})
		}
	}
	return false
}
