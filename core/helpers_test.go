package core

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubTransport answers requests from a path -> Result table and records calls.
type stubTransport struct {
	mu        sync.Mutex
	responses map[string]*Result
	fallback  *Result
	requests  []*Request
}

func newStub(responses map[string]*Result) *stubTransport {
	return &stubTransport{responses: responses}
}

func (s *stubTransport) Execute(_ context.Context, _ *Server, req *Request) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if r, ok := s.responses[req.Path]; ok {
		copied := *r
		return &copied
	}
	if s.fallback != nil {
		copied := *s.fallback
		return &copied
	}
	return &Result{StatusCode: http.StatusNotFound, ErrorText: "no route", Total: -1}
}

func (s *stubTransport) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubTransport) last() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func okResult(body string) *Result {
	return &Result{Success: true, StatusCode: http.StatusOK, ResponseText: body, Total: -1}
}

func statusResult(code int, text string) *Result {
	return &Result{StatusCode: code, ErrorText: text, Total: -1}
}

const versionBody = `{"ProductName":"Unity Connection","Version":"12.5.1.11900-57"}`

func newTestServer(t *testing.T, stub *stubTransport) *Server {
	t.Helper()
	server, err := NewServerFromTransport(stub)
	require.NoError(t, err)
	return server
}

// widget is a minimal resource used to exercise the generic pipeline.
type widget struct {
	ObjectId    string `json:"ObjectId"`
	DisplayName string `json:"DisplayName"`
	Size        int    `json:"Size"`
	Enabled     bool   `json:"Enabled"`
	Color       string `json:"Color"`

	Binding Binding `json:"-" msgpack:"-"`
}

func (w *widget) ResourceBinding() *Binding {
	if w == nil {
		return nil
	}
	return &w.Binding
}

func widgetKind(policy KeyPolicy) *Kind[widget] {
	return &Kind[widget]{
		Name:      "Widget",
		Path:      "widgets",
		Element:   "Widget",
		KeyPolicy: policy,
		Defaults: func(w *widget) {
			w.Color = "blue"
		},
	}
}

type widgetSet struct {
	Total   int      `json:"@total"`
	Widgets []widget `json:"Widget"`

	Binding Binding `json:"-"`
}

func (w *widgetSet) ResourceBinding() *Binding {
	if w == nil {
		return nil
	}
	return &w.Binding
}
