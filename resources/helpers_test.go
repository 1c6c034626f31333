package resources

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unity-tools/go-cupi-client/core"
)

// routes answers "METHOD path" or "path" keys and records every request.
type routes struct {
	mu       sync.Mutex
	table    map[string]*core.Result
	requests []*core.Request
}

func (r *routes) Execute(_ context.Context, _ *core.Server, req *core.Request) *core.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	for _, key := range []string{req.Method + " " + req.Path, req.Path} {
		if res, ok := r.table[key]; ok {
			copied := *res
			return &copied
		}
	}
	return &core.Result{StatusCode: http.StatusNotFound, ErrorText: "Not Found", Method: req.Method, URL: req.Path, Total: -1}
}

func (r *routes) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *routes) last() *core.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[len(r.requests)-1]
}

func ok(body string) *core.Result {
	return &core.Result{Success: true, StatusCode: http.StatusOK, ResponseText: body, Total: -1}
}

func newRoutes(t *testing.T, table map[string]*core.Result) (*core.Server, *routes) {
	t.Helper()
	if table == nil {
		table = map[string]*core.Result{}
	}
	r := &routes{table: table}
	server, err := core.NewServerFromTransport(r)
	require.NoError(t, err)
	return server, r
}
