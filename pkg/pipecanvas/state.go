package pipecanvas

import "reflect"

// Position is a free-form canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed processing step placed on the canvas.
//
// Type is immutable after creation. Data is type-specific and opaque
// to the engine except where handle derivation inspects it.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data"`
}

// Edge connects a source handle to a target handle.
//
// Source and Target should reference existing node ids; the engine
// enforces this only as a cascade on node removal. Handles are checked
// against the derived handle set at connect time only — a handle may
// later disappear (a variable deleted from text) and the edge then
// dangles rather than being auto-pruned.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
}

// GraphState is the canonical editor state held by the history store.
// It is treated as an immutable value: every edit produces a fresh
// snapshot via the pure operations in this package.
//
// NextNodeID is monotonic and never reused, even across undo/redo, so
// node ids stay unique for the whole session. Insertion order of Nodes
// doubles as z-order for ties.
type GraphState struct {
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
	NextNodeID int    `json:"nextNodeId"`
}

// NewGraphState returns an empty graph with the id counter at 1.
func NewGraphState() GraphState {
	return GraphState{NextNodeID: 1}
}

// Clone returns a deep copy. Node data maps are copied one level deep;
// values inside them are treated as immutable.
func (s GraphState) Clone() GraphState {
	out := GraphState{NextNodeID: s.NextNodeID}
	if s.Nodes != nil {
		out.Nodes = make([]Node, len(s.Nodes))
		for i, n := range s.Nodes {
			out.Nodes[i] = n.clone()
		}
	}
	if s.Edges != nil {
		out.Edges = make([]Edge, len(s.Edges))
		copy(out.Edges, s.Edges)
	}
	return out
}

// Equal reports deep equality with another snapshot. It gates history
// growth: writes that change nothing never create entries.
func (s GraphState) Equal(other GraphState) bool {
	return reflect.DeepEqual(s, other)
}

// Node returns the node with the given id.
func (s GraphState) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (s GraphState) Edge(id string) (Edge, bool) {
	for _, e := range s.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

func (n Node) clone() Node {
	out := n
	if n.Data != nil {
		out.Data = make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			out.Data[k] = v
		}
	}
	return out
}
