package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// responsesServer отвечает по очереди заданными статусами и запоминает тела запросов.
type responsesServer struct {
	mu       sync.Mutex
	statuses []int
	bodies   []map[string]any
}

func (s *responsesServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.bodies = append(s.bodies, body)
	n := len(s.bodies)
	status := http.StatusOK
	if n <= len(s.statuses) {
		status = s.statuses[n-1]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
		return
	}
	_, _ = fmt.Fprintf(w, `{"id":"resp_%d","object":"response","status":"completed","output":[`+
		`{"type":"message","id":"msg_%d","role":"assistant","status":"completed",`+
		`"content":[{"type":"output_text","text":"hint %d","annotations":[]}]}]}`, n, n, n)
}

func (s *responsesServer) requests() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies
}

func newResponsesSession(t *testing.T, handler http.Handler) Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewResponsesProvider("test-key", srv.URL+"/")
	s, err := p.NewSession(context.Background(), SessionConfig{SystemInstruction: "guide, do not solve", ReasoningBudget: 32768})
	require.NoError(t, err)
	return s
}

func TestResponsesSessionChainsTurns(t *testing.T) {
	srv := &responsesServer{}
	s := newResponsesSession(t, srv)
	ctx := context.Background()

	reply, err := s.Send(ctx, []Part{ImagePart("image/png", "iVBORw0KGgo="), TextPart("start me off")})
	require.NoError(t, err)
	assert.Equal(t, "hint 1", reply)

	reply, err = s.Send(ctx, []Part{TextPart("and then?")})
	require.NoError(t, err)
	assert.Equal(t, "hint 2", reply)

	reqs := srv.requests()
	require.Len(t, reqs, 2)
	assert.NotContains(t, reqs[0], "previous_response_id")
	assert.Equal(t, "resp_1", reqs[1]["previous_response_id"])
	for _, req := range reqs {
		assert.Equal(t, "guide, do not solve", req["instructions"])
		assert.Equal(t, "o4-mini", req["model"])
		reasoning, ok := req["reasoning"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "high", reasoning["effort"])
	}

	input := reqs[0]["input"].([]any)
	require.Len(t, input, 1)
	content := input[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "input_image", content[0].(map[string]any)["type"])
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", content[0].(map[string]any)["image_url"])
	assert.Equal(t, "input_text", content[1].(map[string]any)["type"])
	assert.Equal(t, "start me off", content[1].(map[string]any)["text"])
}

func TestResponsesSessionFailureKeepsChain(t *testing.T) {
	srv := &responsesServer{statuses: []int{http.StatusOK, http.StatusBadRequest}}
	s := newResponsesSession(t, srv)
	ctx := context.Background()

	_, err := s.Send(ctx, []Part{TextPart("first")})
	require.NoError(t, err)

	_, err = s.Send(ctx, []Part{TextPart("second")})
	require.Error(t, err)

	reply, err := s.Send(ctx, []Part{TextPart("third")})
	require.NoError(t, err)
	assert.Equal(t, "hint 3", reply)

	reqs := srv.requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "resp_1", reqs[1]["previous_response_id"])
	assert.Equal(t, "resp_1", reqs[2]["previous_response_id"], "failed turn does not move the chain")
}
