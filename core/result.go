package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bndr/gotabulate"
)

// Result describes the outcome of one transport exchange.
//
// Success is false whenever the status code is not 2xx or the exchange itself
// failed (StatusCode 0). ResponseText may be empty on success.
type Result struct {
	Success      bool
	StatusCode   int
	ResponseText string
	ErrorText    string
	Method       string
	URL          string
	Elapsed      time.Duration
	// Total is the object count reported by list envelopes, -1 when unknown.
	Total int
}

func newResult(method, url string) *Result {
	return &Result{Method: method, URL: url, Total: -1}
}

// FailedResult builds a Result for an exchange that never reached the server.
func FailedResult(method, url, errorText string) *Result {
	r := newResult(method, url)
	r.ErrorText = errorText
	return r
}

func isSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// fail marks the result unusable while keeping the transport details.
func (r *Result) fail(format string, args ...any) *Result {
	r.Success = false
	r.ErrorText = fmt.Sprintf(format, args...)
	return r
}

// Err converts a failed Result into a *RemoteFetchError. It returns nil on success.
func (r *Result) Err() error {
	if r == nil {
		return &RemoteFetchError{Reason: ReasonRequestFailed, ErrorText: "no result"}
	}
	if r.Success {
		return nil
	}
	return r.fetchError("", "")
}

func (r *Result) fetchError(resource, key string) *RemoteFetchError {
	return &RemoteFetchError{
		Resource:   resource,
		Key:        key,
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		ErrorText:  r.ErrorText,
		Reason:     ReasonRequestFailed,
	}
}

func malformed(r *Result, resource, key string, err error) *RemoteFetchError {
	e := r.fetchError(resource, key)
	e.Reason = ReasonMalformed
	e.Err = err
	return e
}

func empty(r *Result, resource, key string) *RemoteFetchError {
	e := r.fetchError(resource, key)
	e.Reason = ReasonEmptyResponse
	return e
}

func ambiguous(r *Result, resource, key string, matches int) *RemoteFetchError {
	e := r.fetchError(resource, key)
	e.Reason = ReasonAmbiguous
	e.Err = fmt.Errorf("%d records matched, expected exactly one", matches)
	return e
}

func (r *Result) String() string {
	if r.Success {
		return fmt.Sprintf("%s %s -> %d (%s)", r.Method, r.URL, r.StatusCode, r.Elapsed)
	}
	return fmt.Sprintf("%s %s -> %d (%s): %s", r.Method, r.URL, r.StatusCode, r.Elapsed, r.ErrorText)
}

// PrettyTable renders the result as a two-column grid.
func (r *Result) PrettyTable() string {
	rows := [][]any{
		{"success", fmt.Sprintf("%v", r.Success)},
		{"status", fmt.Sprintf("%d", r.StatusCode)},
		{"request", fmt.Sprintf("%s %s", r.Method, r.URL)},
		{"elapsed", r.Elapsed.String()},
	}
	if r.Total >= 0 {
		rows = append(rows, []any{"total", fmt.Sprintf("%d", r.Total)})
	}
	if r.ErrorText != "" {
		rows = append(rows, []any{"error", r.ErrorText})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"attr", "value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return t.Render("grid")
}

func (r *Result) PrettyJson(indent ...string) string {
	var (
		b   []byte
		err error
	)
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}
