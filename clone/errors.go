package clone

import (
	"errors"
	"fmt"
)

// Reason classifies why a value could not be cloned.
type Reason int

const (
	ReasonUncopyableKind Reason = iota + 1 // channel, function or unsafe pointer
	ReasonResource                         // live resource such as an open file
	ReasonCycle                            // the graph references itself
	ReasonSharedReference                  // a shared back-reference cannot be serialized
	ReasonCodec                            // the serializer failed
	ReasonUnexported                       // unexported state would be dropped
)

func (r Reason) String() string {
	switch r {
	case ReasonUncopyableKind:
		return "uncopyable kind"
	case ReasonResource:
		return "live resource"
	case ReasonCycle:
		return "reference cycle"
	case ReasonSharedReference:
		return "shared reference"
	case ReasonCodec:
		return "codec failure"
	case ReasonUnexported:
		return "unexported field"
	default:
		return "unknown"
	}
}

// CloneError reports a value that cannot be duplicated. Path locates the
// offending value inside the graph, e.g. "$.Servers[2].Conn".
type CloneError struct {
	Path   string
	Type   string
	Reason Reason
	Err    error
}

func (e *CloneError) Error() string {
	msg := fmt.Sprintf("clone: %s at %s (%s)", e.Reason, e.Path, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

func IsCloneErr(err error) bool {
	var cloneErr *CloneError
	return errors.As(err, &cloneErr)
}
