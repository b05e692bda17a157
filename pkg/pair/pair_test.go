package pair

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeDQM serves the protocol surface entity tests need: it answers the
// transport probe and the login handshake itself, and routes every other
// document to the first registered handler whose match string appears in
// the query.
type fakeDQM struct {
	mu       sync.Mutex
	requests []capturedRequest
	handlers []fakeHandler
	srv      *httptest.Server
}

type capturedRequest struct {
	Query     string
	Variables map[string]any
}

type fakeHandler struct {
	match string
	data  string
}

func newFakeDQM(t *testing.T) *fakeDQM {
	t.Helper()
	f := &fakeDQM{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeDQM) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	query := gjson.GetBytes(body, "query").String()
	switch {
	case strings.Contains(query, "__typename"):
		fmt.Fprint(w, `{"data":{"__typename":"Query"}}`)
		return
	case strings.Contains(query, "loginMutation"):
		fmt.Fprint(w, `{"data":{"login":{"token":"tok-1"}}}`)
		return
	}

	var vars map[string]any
	if raw := gjson.GetBytes(body, "variables").Raw; raw != "" {
		_ = json.Unmarshal([]byte(raw), &vars)
	}
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Query: query, Variables: vars})
	handlers := append([]fakeHandler(nil), f.handlers...)
	f.mu.Unlock()

	for _, h := range handlers {
		if strings.Contains(query, h.match) {
			fmt.Fprintf(w, `{"data":%s}`, h.data)
			return
		}
	}
	fmt.Fprint(w, `{"errors":[{"message":"unhandled request"}]}`)
}

// on registers a response payload for documents containing match.
func (f *fakeDQM) on(match, data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fakeHandler{match: match, data: data})
}

// captured returns a copy of every non-probe, non-login request seen.
func (f *fakeDQM) captured() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

// variables returns the variables of the i-th captured request.
func (f *fakeDQM) variables(t *testing.T, i int) map[string]any {
	t.Helper()
	reqs := f.captured()
	require.Less(t, i, len(reqs), "request %d was never issued", i)
	return reqs[i].Variables
}

func (f *fakeDQM) client(t *testing.T) *Client {
	t.Helper()
	logger := zerolog.New(io.Discard)
	c, err := NewWithConfig(Config{
		GraphQLEndpoint: f.srv.URL,
		Email:           "machine@example.com",
		Password:        "wrench",
		Timeout:         50 * time.Millisecond,
		MaxRetries:      2,
	}, WithLogger(&logger))
	require.NoError(t, err)
	return c
}

// input extracts the named object from a variables map.
func input(t *testing.T, vars map[string]any, key string) map[string]any {
	t.Helper()
	obj, ok := vars[key].(map[string]any)
	require.True(t, ok, "variables carry no %q object", key)
	return obj
}

func boolPtr(b bool) *bool {
	return &b
}
