package core

import (
	"context"
	"fmt"
	"strings"
)

const defaultRowsPerPage = 100

// Iterator pages through a list endpoint with rowsPerPage/pageNumber, using
// the @total reported by the server to know when to stop.
type Iterator[T any, PT Resource[T]] struct {
	ctx      context.Context
	server   *Server
	kind     *Kind[T]
	filter   Params
	pageSize int

	current     []PT
	last        *Result
	totalCount  int
	currentPage int
	err         error
	initialized bool
}

// NewIterator creates an iterator over kind. If pageSize is 0 or negative a
// default of 100 rows per page is used.
func NewIterator[T any, PT Resource[T]](ctx context.Context, server *Server, kind *Kind[T], filter Params, pageSize int) *Iterator[T, PT] {
	if pageSize <= 0 {
		pageSize = defaultRowsPerPage
	}
	query := make(Params, len(filter)+2)
	query.Update(filter, true)
	return &Iterator[T, PT]{
		ctx:        ctx,
		server:     server,
		kind:       kind,
		filter:     query,
		pageSize:   pageSize,
		totalCount: -1,
	}
}

func (it *Iterator[T, PT]) fetchPage(page int) error {
	query := make(Params, len(it.filter)+2)
	query.Update(it.filter, true)
	query[ParamRowsPerPage] = it.pageSize
	query[ParamPageNumber] = page
	result, items := List[T, PT](it.ctx, it.server, it.kind, query)
	it.last = result
	if !result.Success {
		return result.fetchError(it.kind.Name, fmt.Sprintf("page %d", page))
	}
	it.current = items
	it.totalCount = result.Total
	it.currentPage = page
	return nil
}

// Next advances to the next page. It returns an empty slice when there are no
// more pages.
func (it *Iterator[T, PT]) Next() ([]PT, error) {
	if !it.initialized {
		it.initialized = true
		if it.err = it.fetchPage(1); it.err != nil {
			return []PT{}, it.err
		}
		return it.current, nil
	}
	if !it.HasNext() {
		return []PT{}, nil
	}
	if it.err = it.fetchPage(it.currentPage + 1); it.err != nil {
		return []PT{}, it.err
	}
	return it.current, nil
}

// Previous moves back one page.
func (it *Iterator[T, PT]) Previous() ([]PT, error) {
	if !it.initialized {
		it.err = fmt.Errorf("iterator not initialized, call Next() first")
		return []PT{}, it.err
	}
	if !it.HasPrevious() {
		return []PT{}, nil
	}
	if it.err = it.fetchPage(it.currentPage - 1); it.err != nil {
		return []PT{}, it.err
	}
	return it.current, nil
}

// HasNext returns true if there is a next page.
func (it *Iterator[T, PT]) HasNext() bool {
	if !it.initialized {
		return true
	}
	if it.err != nil || len(it.current) == 0 {
		return false
	}
	return it.currentPage*it.pageSize < it.totalCount
}

// HasPrevious returns true if there is a previous page.
func (it *Iterator[T, PT]) HasPrevious() bool {
	return it.initialized && it.currentPage > 1
}

// Count returns the total reported by the server, -1 before the first page.
func (it *Iterator[T, PT]) Count() int {
	return it.totalCount
}

func (it *Iterator[T, PT]) PageSize() int {
	return it.pageSize
}

// LastResult returns the Result of the most recent page request.
func (it *Iterator[T, PT]) LastResult() *Result {
	return it.last
}

// Reset resets the iterator to the first page and returns the first page.
func (it *Iterator[T, PT]) Reset() ([]PT, error) {
	it.initialized = false
	it.current = nil
	it.last = nil
	it.currentPage = 0
	it.err = nil
	it.totalCount = -1
	return it.Next()
}

// All fetches all remaining pages, including the current one.
func (it *Iterator[T, PT]) All() ([]PT, error) {
	var all []PT
	if !it.initialized {
		items, err := it.Next()
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	} else {
		all = append(all, it.current...)
	}
	for it.HasNext() {
		items, err := it.Next()
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	if all == nil {
		all = []PT{}
	}
	return all, nil
}

func (it *Iterator[T, PT]) String() string {
	var sb strings.Builder
	sb.WriteString("Iterator {\n")
	sb.WriteString(fmt.Sprintf("  Kind:          %s\n", it.kind.Name))
	sb.WriteString(fmt.Sprintf("  Initialized:   %v\n", it.initialized))
	sb.WriteString(fmt.Sprintf("  Current Page:  %d\n", it.currentPage))
	sb.WriteString(fmt.Sprintf("  Page Size:     %d\n", it.pageSize))
	sb.WriteString(fmt.Sprintf("  Total Count:   %d\n", it.totalCount))
	sb.WriteString(fmt.Sprintf("  Current:       [... (%d items)]\n", len(it.current)))
	if it.err != nil {
		sb.WriteString(fmt.Sprintf("  Error:         %v\n", it.err))
	}
	sb.WriteString("}")
	return sb.String()
}
