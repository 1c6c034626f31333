package core

import (
	"context"
	"net/http"
)

// List retrieves every object of kind matching filter.
//
// Failures are reported through the Result only: a nil server, a failed
// request, an undecodable body or any single record that cannot be populated
// all yield Success=false and a nil slice. A successful call with no matches
// yields an empty, non-nil slice. Server order is preserved.
func List[T any, PT Resource[T]](ctx context.Context, server *Server, kind *Kind[T], filter Params) (*Result, []PT) {
	if server == nil {
		return FailedResult(http.MethodGet, kind.Path, "server handle is nil"), nil
	}
	result := server.Execute(ctx, &Request{Method: http.MethodGet, Path: kind.Path, Query: filter})
	if !result.Success {
		return result, nil
	}
	records, total, err := decodeRecords(result.ResponseText, kind.Element)
	if err != nil {
		result.fail("malformed %s list: %v", kind.Name, err)
		return result, nil
	}
	items := make([]PT, 0, len(records))
	for i, rec := range records {
		obj, err := populate[T, PT](server, kind, rec)
		if err != nil {
			result.fail("malformed %s record %d: %v", kind.Name, i, err)
			return result, nil
		}
		items = append(items, obj)
	}
	if total < 0 {
		total = len(items)
	}
	result.Total = total
	return result, items
}
