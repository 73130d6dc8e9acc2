package node

import (
	"fmt"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
)

// ErrorKind classifies the conditions that stop the dispatch loop.
type ErrorKind int

const (
	MalformedInput ErrorKind = iota + 1
	MissingField
	UnknownMessageType
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case MissingField:
		return "missing field"
	case UnknownMessageType:
		return "unknown message type"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Code maps the kind onto the Maelstrom error code table.
func (k ErrorKind) Code() int {
	if k == UnknownMessageType {
		return maelstrom.NotSupported
	}
	return maelstrom.MalformedRequest
}

// Error is returned by the codec and the dispatcher. Every kind is fatal.
type Error struct {
	Kind  ErrorKind
	Field string // set for MissingField
	Type  string // message type being handled, if known
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch e.Kind {
	case MissingField:
		msg += fmt.Sprintf(" %q", e.Field)
		if e.Type != "" {
			msg += fmt.Sprintf(" in %s", e.Type)
		}
	case UnknownMessageType:
		msg += fmt.Sprintf(": %s", e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// RPCError converts the condition into the error body Maelstrom would use
// to describe it.
func (e *Error) RPCError() *maelstrom.RPCError {
	return maelstrom.NewRPCError(e.Kind.Code(), e.Error())
}

func malformed(err error) error {
	return &Error{Kind: MalformedInput, Err: err}
}

func missing(typ, field string) error {
	return &Error{Kind: MissingField, Type: typ, Field: field}
}
