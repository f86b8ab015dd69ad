package pipecanvas

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Pure graph operations. Each takes a snapshot and returns a new one;
// the input is never mutated. All operations are total: unknown ids
// are silently ignored rather than reported.

// edgeSeq disambiguates edge ids minted within the same process.
var edgeSeq atomic.Int64

// AddNode appends a node of the given type. The node id is the string
// form of the snapshot's id counter, which is then incremented. The
// data map is copied, so the caller may reuse it.
func AddNode(s GraphState, typ string, pos Position, data map[string]any) GraphState {
	next := s.Clone()
	node := Node{
		ID:       strconv.Itoa(next.NextNodeID),
		Type:     typ,
		Position: pos,
		Data:     make(map[string]any, len(data)),
	}
	for k, v := range data {
		node.Data[k] = v
	}
	next.NextNodeID++
	next.Nodes = append(next.Nodes, node)
	return next
}

// RemoveNodes removes the named nodes and cascades: every edge whose
// source or target is among them is removed too. This is the one
// referential-integrity rule the model enforces.
func RemoveNodes(s GraphState, ids ...string) GraphState {
	if len(ids) == 0 {
		return s.Clone()
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	next := GraphState{NextNodeID: s.NextNodeID}
	for _, n := range s.Nodes {
		if !doomed[n.ID] {
			next.Nodes = append(next.Nodes, n.clone())
		}
	}
	for _, e := range s.Edges {
		if !doomed[e.Source] && !doomed[e.Target] {
			next.Edges = append(next.Edges, e)
		}
	}
	return next
}

// AddEdge appends an edge with a freshly minted unique id. Self-loops
// and parallel edges between the same handle pair are permitted; the
// graph is not treated as a simple graph. Handle membership is not
// checked here (advisory at connect time, see Editor.Connect).
func AddEdge(s GraphState, source, sourceHandle, target, targetHandle string) GraphState {
	next := s.Clone()
	next.Edges = append(next.Edges, Edge{
		ID:           NewEdgeID(source, sourceHandle, target, targetHandle),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	})
	return next
}

// NewEdgeID mints a unique edge id from the endpoints, a monotonic
// sequence number, and a random suffix. Two edges created in the same
// millisecond between the same handles never collide.
func NewEdgeID(source, sourceHandle, target, targetHandle string) string {
	return fmt.Sprintf("e%s:%s-%s:%s-%d-%s",
		source, sourceHandle, target, targetHandle,
		edgeSeq.Add(1), uuid.NewString()[:8])
}

// RemoveEdges removes the named edges.
func RemoveEdges(s GraphState, ids ...string) GraphState {
	if len(ids) == 0 {
		return s.Clone()
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	next := s.Clone()
	next.Edges = next.Edges[:0]
	for _, e := range s.Edges {
		if !doomed[e.ID] {
			next.Edges = append(next.Edges, e)
		}
	}
	if len(next.Edges) == 0 {
		next.Edges = nil
	}
	return next
}

// PatchNodeData shallow-merges partial into the node's data map.
// Later keys win; keys absent from partial keep their prior value.
// No-op if the node does not exist.
func PatchNodeData(s GraphState, id string, partial map[string]any) GraphState {
	next := s.Clone()
	for i := range next.Nodes {
		if next.Nodes[i].ID != id {
			continue
		}
		if next.Nodes[i].Data == nil {
			next.Nodes[i].Data = make(map[string]any, len(partial))
		}
		for k, v := range partial {
			next.Nodes[i].Data[k] = v
		}
		break
	}
	return next
}

// MoveNodes sets new positions for the named nodes. Used by the
// reconciliation layer to commit settled drag positions in a single
// snapshot. Unknown ids are ignored.
func MoveNodes(s GraphState, positions map[string]Position) GraphState {
	next := s.Clone()
	for i := range next.Nodes {
		if pos, ok := positions[next.Nodes[i].ID]; ok {
			next.Nodes[i].Position = pos
		}
	}
	return next
}
