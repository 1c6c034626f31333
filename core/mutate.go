package core

import (
	"context"
	"net/http"
	"path"
	"strings"
)

// Create posts body to the kind's collection endpoint. On success the server
// answers with the URI of the new object; see CreatedID.
func Create[T any](ctx context.Context, server *Server, kind *Kind[T], query Params, body any) *Result {
	if server == nil {
		return FailedResult(http.MethodPost, kind.Path, "server handle is nil")
	}
	return server.Execute(ctx, &Request{Method: http.MethodPost, Path: kind.Path, Query: query, Body: body})
}

// CreatedID extracts the object id from the URI returned by a create call.
func CreatedID(result *Result) string {
	if result == nil || !result.Success {
		return ""
	}
	text := strings.Trim(strings.TrimSpace(result.ResponseText), `"`)
	if text == "" {
		return ""
	}
	return path.Base(strings.TrimRight(text, "/"))
}

// Save creates the server-side object for an unsaved template and binds the
// template to the new object id. Fields are sent by json tag; empty omitempty
// fields are left to server defaults.
func Save[T any, PT Resource[T]](ctx context.Context, obj PT, kind *Kind[T]) *Result {
	if obj == nil {
		return FailedResult(http.MethodPost, kind.Path, "object is nil")
	}
	binding := obj.ResourceBinding()
	if binding.loaded {
		return FailedResult(http.MethodPost, kind.Path, "object already exists on the server")
	}
	if binding.server == nil {
		return FailedResult(http.MethodPost, kind.Path, "server handle is nil")
	}
	result := Create(ctx, binding.server, kind, nil, NewParamsFromStruct(obj))
	if !result.Success {
		return result
	}
	id := CreatedID(result)
	if id == "" {
		return result.fail("server did not return the new %s object id", kind.Name)
	}
	binding.bind(binding.server, id, true)
	return result
}

// Update sends changes for a loaded object and applies them locally on success.
func Update[T any, PT Resource[T]](ctx context.Context, obj PT, kind *Kind[T], changes Params) *Result {
	b, err := boundTarget(obj, http.MethodPut, kind)
	if err != nil {
		return b
	}
	binding := obj.ResourceBinding()
	result := binding.server.Execute(ctx, &Request{
		Method: http.MethodPut,
		Path:   kind.itemPath(binding.objectID),
		Body:   changes,
	})
	if !result.Success || len(changes) == 0 {
		return result
	}
	if err = Record(changes).Fill(obj); err != nil {
		return result.fail("server accepted the update but local fields could not be refreshed: %v", err)
	}
	return result
}

// Delete removes a loaded object. The local object is marked not loaded on success.
func Delete[T any, PT Resource[T]](ctx context.Context, obj PT, kind *Kind[T]) *Result {
	b, err := boundTarget(obj, http.MethodDelete, kind)
	if err != nil {
		return b
	}
	binding := obj.ResourceBinding()
	result := binding.server.Execute(ctx, &Request{
		Method: http.MethodDelete,
		Path:   kind.itemPath(binding.objectID),
	})
	if result.Success {
		binding.loaded = false
	}
	return result
}

func boundTarget[T any, PT Resource[T]](obj PT, method string, kind *Kind[T]) (*Result, error) {
	if obj == nil {
		return FailedResult(method, kind.Path, ErrNotLoaded.Error()), ErrNotLoaded
	}
	binding := obj.ResourceBinding()
	if err := binding.Check(); err != nil {
		return FailedResult(method, kind.Path, err.Error()), err
	}
	if binding.server == nil || binding.objectID == "" {
		return FailedResult(method, kind.Path, "object has no server binding"), ErrNotLoaded
	}
	return nil, nil
}
