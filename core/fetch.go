package core

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Resource is the constraint satisfied by pointers to resource structs.
type Resource[T any] interface {
	*T
	Bindable
}

// Fetch constructs a resource of kind identified by key.
//
// The outcome is atomic: either a fully populated object bound to server, or
// nil plus an error. A nil server or a key rejected by the kind's KeyPolicy
// yields *ArgumentError without any request. An empty key on a KeyOptional
// kind yields an unsaved template (defaults only, not loaded). Every request
// failure yields *RemoteFetchError.
func Fetch[T any, PT Resource[T]](ctx context.Context, server *Server, kind *Kind[T], key string) (PT, error) {
	if server == nil {
		return nil, &ArgumentError{Op: "New" + kind.Name, Arg: "server", Msg: "server handle is nil"}
	}
	if key == "" {
		switch kind.KeyPolicy {
		case KeyRequired:
			return nil, &ArgumentError{Op: "New" + kind.Name, Arg: "key", Msg: "key cannot be empty string"}
		case KeyOptional:
			return Template[T, PT](server, kind), nil
		case KeyNone:
			return fetchCollection[T, PT](ctx, server, kind)
		}
	}
	result := server.Execute(ctx, &Request{Method: http.MethodGet, Path: kind.itemPath(key)})
	return decodeUnique[T, PT](server, kind, key, key, result)
}

// FetchBy constructs a resource through a list query that must match exactly
// one object, such as a user looked up by alias.
func FetchBy[T any, PT Resource[T]](ctx context.Context, server *Server, kind *Kind[T], filter Params) (PT, error) {
	key := ""
	if filter != nil {
		key = filter.ToQuery()
	}
	if server == nil {
		return nil, &ArgumentError{Op: "New" + kind.Name, Arg: "server", Msg: "server handle is nil"}
	}
	if len(filter) == 0 {
		return nil, &ArgumentError{Op: "New" + kind.Name, Arg: "filter", Msg: "lookup filter cannot be empty"}
	}
	result := server.Execute(ctx, &Request{Method: http.MethodGet, Path: kind.Path, Query: filter})
	return decodeUnique[T, PT](server, kind, key, "", result)
}

// Template returns an unsaved object of kind with defaults applied, bound to
// server but not loaded.
func Template[T any, PT Resource[T]](server *Server, kind *Kind[T]) PT {
	obj := PT(kind.newObject())
	obj.ResourceBinding().bind(server, "", false)
	return obj
}

// decodeUnique populates one object from a response that must carry exactly
// one record. fallbackID is recorded when the record has no id field.
func decodeUnique[T any, PT Resource[T]](server *Server, kind *Kind[T], key, fallbackID string, result *Result) (PT, error) {
	if !result.Success {
		return nil, result.fetchError(kind.Name, key)
	}
	records, total, err := decodeRecords(result.ResponseText, kind.Element)
	if err != nil {
		return nil, malformed(result, kind.Name, key, err)
	}
	result.Total = total
	switch len(records) {
	case 0:
		return nil, empty(result, kind.Name, key)
	case 1:
	default:
		return nil, ambiguous(result, kind.Name, key, len(records))
	}
	obj, err := populate[T, PT](server, kind, records[0])
	if err != nil {
		return nil, malformed(result, kind.Name, key, err)
	}
	if binding := obj.ResourceBinding(); binding.objectID == "" {
		binding.objectID = fallbackID
	}
	server.logger.Debug("resource fetched",
		zap.String("kind", kind.Name),
		zap.String("key", key),
		zap.String("object_id", obj.ResourceBinding().objectID))
	return obj, nil
}

// fetchCollection populates a single object from a whole list envelope.
func fetchCollection[T any, PT Resource[T]](ctx context.Context, server *Server, kind *Kind[T]) (PT, error) {
	result := server.Execute(ctx, &Request{Method: http.MethodGet, Path: kind.Path})
	if !result.Success {
		return nil, result.fetchError(kind.Name, "")
	}
	records, total, err := decodeRecords(result.ResponseText, kind.Element)
	if err != nil {
		return nil, malformed(result, kind.Name, "", err)
	}
	if len(records) == 0 {
		return nil, empty(result, kind.Name, "")
	}
	if total < 0 {
		total = len(records)
	}
	result.Total = total
	envelope := Record{totalKey: total, kind.Element: records}
	obj := PT(kind.newObject())
	if err = envelope.Fill(obj); err != nil {
		return nil, malformed(result, kind.Name, "", err)
	}
	obj.ResourceBinding().bind(server, "", true)
	return obj, nil
}

func populate[T any, PT Resource[T]](server *Server, kind *Kind[T], rec Record) (PT, error) {
	obj := PT(kind.newObject())
	if err := rec.Fill(obj); err != nil {
		return nil, err
	}
	obj.ResourceBinding().bind(server, rec.String(kind.idField()), true)
	return obj, nil
}
