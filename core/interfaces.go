package core

import (
	"context"
	"net/http"
)

// Request describes a single exchange with the provisioning interface.
type Request struct {
	Method string
	// Path is relative to the /vmrest/ root unless it is already an absolute URL.
	Path     string
	Query    Params
	Body     any
	UseCache bool
	Headers  http.Header
}

// Transport performs one request/response exchange on behalf of a Server.
// It never returns nil; failures are reported through Result.Success.
type Transport interface {
	Execute(ctx context.Context, server *Server, req *Request) *Result
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(ctx context.Context, server *Server, req *Request) *Result

func (f TransportFunc) Execute(ctx context.Context, server *Server, req *Request) *Result {
	return f(ctx, server, req)
}

// Bindable is implemented by every resource object built through Fetch and List.
type Bindable interface {
	ResourceBinding() *Binding
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}
