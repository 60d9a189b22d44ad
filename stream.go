package jsonstreams

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnodel/jsonstreams/internal/format"
)

// Kind is the kind of the root container of a stream.
type Kind uint8

const (
	ObjectKind Kind = iota + 1
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind returns the Kind named s ("object" or "array").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "object":
		return ObjectKind, nil
	case "array":
		return ArrayKind, nil
	}
	return 0, fmt.Errorf("invalid stream kind %q: must be object or array", s)
}

// sink is the destination of a stream.  When closer is not nil, the stream
// owns the destination and closes it after the root container.
type sink struct {
	w      io.Writer
	buf    *bufio.Writer
	closer io.Closer
	closed bool
}

func (s *sink) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.buf != nil {
		err = s.buf.Flush()
	}
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	if err != nil {
		return &IOError{Op: opClose, Err: err}
	}
	return nil
}

func externalSink(w io.Writer) *sink {
	return &sink{w: w}
}

func createSink(path string, bufferSize int) (*sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &IOError{Op: opOpen, Err: err}
	}
	buf := bufio.NewWriterSize(f, bufferSize)
	return &sink{w: buf, buf: buf, closer: f}, nil
}

// newRoot writes the opening bracket of the root container to the sink.
func newRoot(s *sink, o *options, openBytes, closeBytes []byte) (*container, error) {
	p := format.NewPrinter(s.w, o.indent)
	if o.autoFlush {
		if f, ok := s.w.(format.Flusher); ok {
			p.Flusher = f
		}
	}
	c := &container{
		p:          p,
		enc:        o.encoder,
		depth:      1,
		closeBytes: closeBytes,
	}
	if err := c.open(openBytes); err != nil {
		return nil, errors.Join(err, s.close())
	}
	c.finish = s.close
	return c, nil
}

// An ObjectStream is a JSON document whose root is an object.  It has all
// the methods of Object.  Closing it, or its root Object, closes the root
// object then, if the stream owns its destination, the destination.
type ObjectStream struct {
	*Object
	sink *sink
}

// NewObjectStream starts a JSON object on w.  The stream does not own w:
// closing the stream does not close w.
func NewObjectStream(w io.Writer, opts ...Option) (*ObjectStream, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return newObjectStream(externalSink(w), o)
}

// CreateObjectStream creates the named file and starts a JSON object in it.
// The file is closed when the stream is closed.
func CreateObjectStream(path string, opts ...Option) (*ObjectStream, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := createSink(path, o.bufferSize)
	if err != nil {
		return nil, err
	}
	return newObjectStream(s, o)
}

func newObjectStream(s *sink, o *options) (*ObjectStream, error) {
	c, err := newRoot(s, o, openObjectBytes, closeObjectBytes)
	if err != nil {
		return nil, err
	}
	return &ObjectStream{Object: &Object{c: c}, sink: s}, nil
}

// Close closes the root object, then the destination if the stream owns it.
// It fails with ErrStreamClosed if the stream is already closed.  If the
// closing bracket cannot be written, the destination is still closed and the
// stream is closed.  s.Object.Close() does the same.
func (s *ObjectStream) Close() error {
	return s.Object.Close()
}

func (s *ObjectStream) closeIfOpen() error {
	return errors.Join(s.c.closeIfOpen(), s.sink.close())
}

// An ArrayStream is a JSON document whose root is an array.  It has all the
// methods of Array.  Closing it, or its root Array, closes the root array
// then, if the stream owns its destination, the destination.
type ArrayStream struct {
	*Array
	sink *sink
}

// NewArrayStream starts a JSON array on w.  The stream does not own w:
// closing the stream does not close w.
func NewArrayStream(w io.Writer, opts ...Option) (*ArrayStream, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return newArrayStream(externalSink(w), o)
}

// CreateArrayStream creates the named file and starts a JSON array in it.
// The file is closed when the stream is closed.
func CreateArrayStream(path string, opts ...Option) (*ArrayStream, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := createSink(path, o.bufferSize)
	if err != nil {
		return nil, err
	}
	return newArrayStream(s, o)
}

func newArrayStream(s *sink, o *options) (*ArrayStream, error) {
	c, err := newRoot(s, o, openArrayBytes, closeArrayBytes)
	if err != nil {
		return nil, err
	}
	return &ArrayStream{Array: &Array{c: c}, sink: s}, nil
}

// Close closes the root array, then the destination if the stream owns it.
// It fails with ErrStreamClosed if the stream is already closed.  If the
// closing bracket cannot be written, the destination is still closed and the
// stream is closed.  s.Array.Close() does the same.
func (s *ArrayStream) Close() error {
	return s.Array.Close()
}

func (s *ArrayStream) closeIfOpen() error {
	return errors.Join(s.c.closeIfOpen(), s.sink.close())
}

// WriteObject writes a JSON object to w, passing the stream to f.  The
// stream is closed when f returns or panics, so the output is a complete
// document even if f fails, provided f closes the sub-containers it opens
// (WithSubObject and WithSubArray do this).
func WriteObject(w io.Writer, f func(*ObjectStream) error, opts ...Option) error {
	s, err := NewObjectStream(w, opts...)
	if err != nil {
		return err
	}
	return scopedStream(s, f)
}

// WriteObjectFile is like WriteObject but writes to the named file.
func WriteObjectFile(path string, f func(*ObjectStream) error, opts ...Option) error {
	s, err := CreateObjectStream(path, opts...)
	if err != nil {
		return err
	}
	return scopedStream(s, f)
}

// WriteArray writes a JSON array to w, passing the stream to f.  See
// WriteObject.
func WriteArray(w io.Writer, f func(*ArrayStream) error, opts ...Option) error {
	s, err := NewArrayStream(w, opts...)
	if err != nil {
		return err
	}
	return scopedStream(s, f)
}

// WriteArrayFile is like WriteArray but writes to the named file.
func WriteArrayFile(path string, f func(*ArrayStream) error, opts ...Option) error {
	s, err := CreateArrayStream(path, opts...)
	if err != nil {
		return err
	}
	return scopedStream(s, f)
}

func scopedStream[S interface{ closeIfOpen() error }](s S, f func(S) error) (err error) {
	defer func() {
		err = errors.Join(err, s.closeIfOpen())
	}()
	return f(s)
}
