package bridge

import "github.com/pipecanvas/pipecanvas/pkg/pipecanvas"

// Wire types: each node and edge reduced to the subset the validator
// cares about. Node data, positions, and counters stay local.

type wireNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type wireEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
}

type parseRequest struct {
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

func newParseRequest(s pipecanvas.GraphState) parseRequest {
	req := parseRequest{
		Nodes: make([]wireNode, len(s.Nodes)),
		Edges: make([]wireEdge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		req.Nodes[i] = wireNode{ID: n.ID, Type: n.Type}
	}
	for i, e := range s.Edges {
		req.Edges[i] = wireEdge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		}
	}
	return req
}
