package jsonstreams

import "fmt"

const defaultBufferSize = 32 * 1024

type options struct {
	indent     int
	encoder    Encoder
	autoFlush  bool
	bufferSize int
	errs       []error
}

// An Option configures a stream.
type Option func(*options)

// WithIndent sets the number of spaces per nesting level.  0 (the default)
// produces compact output on a single line.
func WithIndent(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.errs = append(o.errs, fmt.Errorf("invalid indent width %d: must not be negative", n))
			return
		}
		o.indent = n
	}
}

// WithEncoder sets the Encoder used for values and keys.
func WithEncoder(enc Encoder) Option {
	return func(o *options) {
		if enc == nil {
			enc = DefaultEncoder
		}
		o.encoder = enc
	}
}

// WithAutoFlush makes the stream flush its destination after each item if
// the destination has a Flush() error method (e.g. a *bufio.Writer).  This
// is useful when output is read interactively.
func WithAutoFlush() Option {
	return func(o *options) {
		o.autoFlush = true
	}
}

// WithBufferSize sets the size of the write buffer used when the stream
// creates its own file.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.errs = append(o.errs, fmt.Errorf("invalid buffer size %d: must be positive", n))
			return
		}
		o.bufferSize = n
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		encoder:    DefaultEncoder,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.errs) > 0 {
		return nil, o.errs[0]
	}
	return o, nil
}
