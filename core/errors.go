package core

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by accessors of resource objects that were never
// populated from the server (nil receivers, failed or template constructions).
var ErrNotLoaded = errors.New("resource object is not loaded from the server")

// ArgumentError reports invalid caller input detected before any network access.
type ArgumentError struct {
	Op  string
	Arg string
	Msg string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Op, e.Arg, e.Msg)
}

// FetchReason tells apart the ways a remote fetch can produce unusable data.
type FetchReason int

const (
	ReasonRequestFailed FetchReason = iota + 1 // transport failure or non-2xx status
	ReasonEmptyResponse                        // success without any record
	ReasonMalformed                            // body or record could not be decoded
	ReasonAmbiguous                            // a unique lookup matched several records
)

func (r FetchReason) String() string {
	switch r {
	case ReasonRequestFailed:
		return "request failed"
	case ReasonEmptyResponse:
		return "empty response"
	case ReasonMalformed:
		return "malformed response"
	case ReasonAmbiguous:
		return "ambiguous response"
	default:
		return "unknown"
	}
}

// RemoteFetchError is returned when a request was attempted and either failed
// or returned content that cannot populate a resource.
type RemoteFetchError struct {
	Resource   string
	Key        string
	Method     string
	URL        string
	StatusCode int
	ErrorText  string
	Reason     FetchReason
	Err        error
}

func (e *RemoteFetchError) Error() string {
	target := e.Resource
	if e.Key != "" {
		target = fmt.Sprintf("%s %q", e.Resource, e.Key)
	}
	msg := fmt.Sprintf("fetch %s: %s", target, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": %s %s returned status code %d", e.Method, e.URL, e.StatusCode)
	} else if e.URL != "" {
		msg += fmt.Sprintf(": %s %s", e.Method, e.URL)
	}
	if e.ErrorText != "" {
		msg += ": " + e.ErrorText
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a server handle could not be validated
// against the remote endpoint.
type ValidationError struct {
	Host string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("remote validation of server %q failed: %v", e.Host, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsArgumentErr(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

func IsRemoteFetchErr(err error) bool {
	var fetchErr *RemoteFetchError
	return errors.As(err, &fetchErr)
}

func IsValidationErr(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsEmptyResultErr reports whether err is a RemoteFetchError raised for a
// successful response that carried no usable record.
func IsEmptyResultErr(err error) bool {
	var fetchErr *RemoteFetchError
	if !errors.As(err, &fetchErr) {
		return false
	}
	return fetchErr.Reason == ReasonEmptyResponse
}

// StatusCode extracts the HTTP status code of a RemoteFetchError, or 0.
func StatusCode(err error) int {
	var fetchErr *RemoteFetchError
	if !errors.As(err, &fetchErr) {
		return 0
	}
	return fetchErr.StatusCode
}

func IgnoreStatusCodes(err error, codes ...int) error {
	if ExpectStatusCodes(err, codes...) {
		return nil
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	if !IsRemoteFetchErr(err) {
		return false
	}
	statusCode := StatusCode(err)
	for _, code := range codes {
		if statusCode == code {
			return true
		}
	}
	return false
}
