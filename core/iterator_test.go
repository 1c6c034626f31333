package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedTransport serves total widgets named w1..wN in pages, honoring
// rowsPerPage and pageNumber.
func pagedTransport(total int, failPage int, calls *int32) Transport {
	return TransportFunc(func(_ context.Context, _ *Server, req *Request) *Result {
		atomic.AddInt32(calls, 1)
		rows, _ := toInt(fmt.Sprint(req.Query[ParamRowsPerPage]))
		page, _ := toInt(fmt.Sprint(req.Query[ParamPageNumber]))
		if int(page) == failPage {
			return statusResult(http.StatusInternalServerError, "boom")
		}
		start := int((page - 1) * rows)
		end := start + int(rows)
		if end > total {
			end = total
		}
		items := make([]string, 0, int(rows))
		for i := start; i < end; i++ {
			items = append(items, fmt.Sprintf(`{"ObjectId":"w%d"}`, i+1))
		}
		return okResult(fmt.Sprintf(`{"@total":"%d","Widget":[%s]}`, total, strings.Join(items, ",")))
	})
}

func newPagedServer(t *testing.T, total, failPage int) (*Server, *int32) {
	t.Helper()
	var calls int32
	server, err := NewServerFromTransport(pagedTransport(total, failPage, &calls))
	require.NoError(t, err)
	return server, &calls
}

func widgetIDs(items []*widget) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ObjectId)
	}
	return out
}

func TestIterator_Paging(t *testing.T) {
	server, calls := newPagedServer(t, 5, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 2)

	assert.True(t, it.HasNext())
	assert.Equal(t, -1, it.Count())

	page, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2"}, widgetIDs(page))
	assert.Equal(t, 5, it.Count())
	assert.False(t, it.HasPrevious())
	assert.True(t, it.HasNext())

	page, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"w3", "w4"}, widgetIDs(page))

	page, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"w5"}, widgetIDs(page))
	assert.False(t, it.HasNext())

	page, err = it.Next()
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))

	page, err = it.Previous()
	require.NoError(t, err)
	assert.Equal(t, []string{"w3", "w4"}, widgetIDs(page))
	assert.True(t, it.LastResult().Success)
}

func TestIterator_All(t *testing.T) {
	server, calls := newPagedServer(t, 7, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 3)

	all, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2", "w3", "w4", "w5", "w6", "w7"}, widgetIDs(all))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestIterator_AllEmpty(t *testing.T) {
	server, _ := newPagedServer(t, 0, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 10)

	all, err := it.All()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
	assert.Equal(t, 0, it.Count())
}

func TestIterator_PageFailure(t *testing.T) {
	server, _ := newPagedServer(t, 10, 2)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 4)

	all, err := it.All()
	require.Error(t, err)
	assert.Nil(t, all)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.False(t, it.HasNext())
}

func TestIterator_Reset(t *testing.T) {
	server, _ := newPagedServer(t, 4, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 2)

	_, err := it.Next()
	require.NoError(t, err)
	_, err = it.Next()
	require.NoError(t, err)

	page, err := it.Reset()
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2"}, widgetIDs(page))
}

func TestIterator_PreviousBeforeNext(t *testing.T) {
	server, _ := newPagedServer(t, 4, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 2)

	_, err := it.Previous()
	assert.Error(t, err)
}

func TestIterator_PageSize(t *testing.T) {
	server, _ := newPagedServer(t, 1, 0)
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultRowsPerPage},
		{-5, defaultRowsPerPage},
		{25, 25},
	}
	for _, tt := range tests {
		it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, tt.in)
		assert.Equal(t, tt.want, it.PageSize())
	}
}

func TestIterator_KeepsFilter(t *testing.T) {
	stub := newStub(map[string]*Result{"widgets": okResult(`{"@total":"0"}`)})
	filter := Query("displayname", OpStartsWith, "A")
	it := NewIterator[widget](context.Background(), newTestServer(t, stub), widgetKind(KeyOptional), filter, 50)

	_, err := it.Next()
	require.NoError(t, err)
	query := stub.last().Query
	assert.Equal(t, "(displayname startswith A)", query[ParamQuery])
	assert.Equal(t, 50, query[ParamRowsPerPage])
	assert.Equal(t, 1, query[ParamPageNumber])
	// The caller's filter is not modified.
	assert.Len(t, filter, 1)
}

func TestIterator_String(t *testing.T) {
	server, _ := newPagedServer(t, 1, 0)
	it := NewIterator[widget](context.Background(), server, widgetKind(KeyOptional), nil, 10)
	s := it.String()
	assert.Contains(t, s, "Kind:          Widget")
	assert.Contains(t, s, "Page Size:     10")
}
