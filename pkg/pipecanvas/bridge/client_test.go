package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
)

// buildGraph returns a two-node, one-edge pipeline.
func buildGraph() pipecanvas.GraphState {
	s := pipecanvas.NewGraphState()
	s = pipecanvas.AddNode(s, pipecanvas.TypeInput, pipecanvas.Position{}, nil)
	s = pipecanvas.AddNode(s, pipecanvas.TypeOutput, pipecanvas.Position{}, nil)
	return pipecanvas.AddEdge(s, "1", "value", "2", "value")
}

// TestClient_Validate_Success tests the round trip and the wire
// subset: node data and positions must not leak into the request.
func TestClient_Validate_Success(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pipelines/parse", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(map[string]any{
			"num_nodes": 2,
			"num_edges": 1,
			"is_dag":    true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	report, err := client.Validate(context.Background(), buildGraph())

	require.NoError(t, err)
	assert.Equal(t, pipecanvas.ValidationReport{NumNodes: 2, NumEdges: 1, IsDAG: true}, report)

	nodes := received["nodes"].([]any)
	require.Len(t, nodes, 2)
	first := nodes[0].(map[string]any)
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, "input", first["type"])
	assert.NotContains(t, first, "position")
	assert.NotContains(t, first, "data")

	edges := received["edges"].([]any)
	require.Len(t, edges, 1)
	edge := edges[0].(map[string]any)
	assert.Equal(t, "1", edge["source"])
	assert.Equal(t, "2", edge["target"])
	assert.Equal(t, "value", edge["sourceHandle"])
}

// TestClient_Validate_NonSuccessStatus tests status failures.
func TestClient_Validate_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Validate(context.Background(), buildGraph())

	require.Error(t, err)
	assert.ErrorIs(t, err, pipecanvas.ErrValidateFailed)

	var verr *pipecanvas.ValidateError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, http.StatusInternalServerError, verr.Status)
}

// TestClient_Validate_MalformedResponse tests parse failures.
func TestClient_Validate_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Validate(context.Background(), buildGraph())
	assert.ErrorIs(t, err, pipecanvas.ErrValidateFailed)
}

// TestClient_Validate_TransportFailure tests an unreachable validator.
func TestClient_Validate_TransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here

	_, err := client.Validate(context.Background(), buildGraph())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipecanvas.ErrValidateFailed)

	var verr *pipecanvas.ValidateError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, verr.Status)
}

// TestClient_Validate_ContextCancelled tests context propagation.
func TestClient_Validate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL)
	_, err := client.Validate(ctx, buildGraph())
	assert.ErrorIs(t, err, pipecanvas.ErrValidateFailed)
}
