package jsonstreams

import (
	"errors"
	"fmt"
)

// Error kinds.  Errors returned by this package can be matched against them
// with errors.Is.
var (
	// ErrStreamClosed is the kind of errors returned when operating on a
	// closed container or stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrWrongChildActive is the kind of errors returned when writing to a
	// container (or closing it) while one of its children is still open.
	// Because output is streamed, the parent cannot receive data until the
	// child is closed.  This is a programming error.
	ErrWrongChildActive = errors.New("a child container is still open")

	// ErrInvalidKeyType is the kind of errors returned when an object key is
	// not a string.
	ErrInvalidKeyType = errors.New("invalid key type")
)

// Operation names used in errors.
const (
	opOpen      = "open"
	opWrite     = "write"
	opClose     = "close"
	opSubArray  = "subarray"
	opSubObject = "subobject"
)

var closedMessages = map[string]string{
	opWrite:     "cannot write to a closed stream",
	opClose:     "stream is already closed",
	opSubArray:  "cannot open a subarray of a closed stream",
	opSubObject: "cannot open a subobject of a closed stream",
}

// A ClosedError is returned by any operation attempted on a closed
// container.  Op is the attempted operation.
type ClosedError struct {
	Op string
}

func (e *ClosedError) Error() string {
	if msg, ok := closedMessages[e.Op]; ok {
		return msg
	}
	return fmt.Sprintf("cannot %s: %s", e.Op, ErrStreamClosed)
}

func (e *ClosedError) Is(target error) bool {
	return target == ErrStreamClosed
}

// A ChildOpenError is returned when an operation is attempted on a container
// while one of its children is open.
type ChildOpenError struct {
	Op string
}

func (e *ChildOpenError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, ErrWrongChildActive)
}

func (e *ChildOpenError) Is(target error) bool {
	return target == ErrWrongChildActive
}

// A KeyTypeError is returned when an object key cannot be used as a JSON
// object key.
type KeyTypeError struct {
	Key any
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("%s %T: object keys must be strings", ErrInvalidKeyType, e.Key)
}

func (e *KeyTypeError) Is(target error) bool {
	return target == ErrInvalidKeyType
}

// An IOError wraps an error returned by the sink.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// An EncodeError wraps an error returned by the Encoder.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding value: %s", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
