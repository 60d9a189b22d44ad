package jsonstreams

import (
	"encoding"
	"errors"
	"reflect"

	"github.com/arnodel/jsonstreams/internal/debug"
	"github.com/arnodel/jsonstreams/internal/format"
)

type state uint8

const (
	stateOpen state = iota
	stateChildOpen
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateChildOpen:
		return "child-open"
	case stateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// container holds the state shared by Object and Array.  All containers of
// a stream share the same printer.
//
// Items of a container are indented at depth levels and its closing
// bracket at depth-1.  The root container has depth 1.
type container struct {
	p          *format.Printer
	enc        Encoder
	depth      int
	hasWritten bool
	state      state
	closeBytes []byte

	// release is handed over by the parent when the container is opened.
	// It is called exactly once, when the container is closed, to re-enable
	// the parent.  It is nil for the root container.
	release func()

	// finish is set on the root container only.  It releases the stream's
	// destination once the root is closed, including when writing the
	// closing bracket failed.
	finish func() error
}

// open writes the opening bracket of a root container.
func (c *container) open(openBytes []byte) error {
	return c.emit(opOpen, func(p *format.Printer) {
		p.PrintBytes(openBytes)
	})
}

// check returns an error if op cannot be performed in the current state.
func (c *container) check(op string) error {
	switch c.state {
	case stateClosed:
		return &ClosedError{Op: op}
	case stateChildOpen:
		return &ChildOpenError{Op: op}
	}
	return nil
}

// emit sends an item to the sink in one write.
func (c *container) emit(op string, f func(p *format.Printer)) error {
	err := c.p.Print(f)
	if err != nil {
		var perr *format.PrinterError
		if errors.As(err, &perr) {
			err = perr.Err
		}
		return &IOError{Op: op, Err: err}
	}
	return nil
}

// beginItem prints what precedes a new item: the item separator unless this
// is the first item, then a new line if indenting.
func (c *container) beginItem(p *format.Printer) {
	if c.hasWritten {
		p.PrintBytes(itemSeparatorBytes)
		if !p.Indented() {
			p.PrintBytes(spaceBytes)
		}
	}
	p.NewLine(c.depth)
}

func (c *container) encode(v any) ([]byte, error) {
	b, err := c.enc.Encode(v)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return b, nil
}

// encodeKey encodes an object key.  Only values with a string kind or
// implementing encoding.TextMarshaler are valid keys.  As with map keys in
// encoding/json, string kind takes precedence over MarshalText.
func (c *container) encodeKey(key any) ([]byte, error) {
	if k, ok := key.(string); ok {
		return c.encode(k)
	}
	v := reflect.ValueOf(key)
	if v.Kind() == reflect.String {
		return c.encode(v.String())
	}
	if tm, ok := key.(encoding.TextMarshaler); ok {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil, &KeyTypeError{Key: key}
		}
		text, err := tm.MarshalText()
		if err != nil {
			return nil, &EncodeError{Err: err}
		}
		return c.encode(string(text))
	}
	return nil, &KeyTypeError{Key: key}
}

// writeItem writes an item made of an optional encoded key and an encoded
// value.
func (c *container) writeItem(key, value []byte) error {
	err := c.emit(opWrite, func(p *format.Printer) {
		c.beginItem(p)
		if key != nil {
			p.PrintBytes(key)
			p.PrintBytes(keyValueSeparatorBytes)
		}
		p.PrintBytes(value)
	})
	if err != nil {
		return err
	}
	c.hasWritten = true
	return nil
}

// openChild writes the start of a child container as the next item and
// locks c until the child is closed.
func (c *container) openChild(op string, key []byte, openBytes, closeBytes []byte) (*container, error) {
	err := c.emit(op, func(p *format.Printer) {
		c.beginItem(p)
		if key != nil {
			p.PrintBytes(key)
			p.PrintBytes(keyValueSeparatorBytes)
		}
		p.PrintBytes(openBytes)
	})
	if err != nil {
		return nil, err
	}
	c.hasWritten = true
	c.state = stateChildOpen
	debug.Printf("depth %d: %s", c.depth, c.state)
	return &container{
		p:          c.p,
		enc:        c.enc,
		depth:      c.depth + 1,
		closeBytes: closeBytes,
		release:    c.childClosed,
	}, nil
}

func (c *container) childClosed() {
	c.state = stateOpen
	debug.Printf("depth %d: %s", c.depth, c.state)
}

func (c *container) close() error {
	if err := c.check(opClose); err != nil {
		return err
	}
	err := c.emit(opClose, func(p *format.Printer) {
		if c.hasWritten {
			p.NewLine(c.depth - 1)
		}
		p.PrintBytes(c.closeBytes)
	})
	if err != nil && c.finish == nil {
		return err
	}
	// A root whose closing bracket cannot be written is closed anyway, so
	// that its destination is released.
	c.state = stateClosed
	debug.Printf("depth %d: %s", c.depth, c.state)
	if release := c.release; release != nil {
		c.release = nil
		release()
	}
	if finish := c.finish; finish != nil {
		c.finish = nil
		err = errors.Join(err, finish())
	}
	return err
}

// closeIfOpen is used by scoped helpers: closing an already closed
// container is not an error.
func (c *container) closeIfOpen() error {
	if c.state == stateClosed {
		return nil
	}
	return c.close()
}

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	itemSeparatorBytes     = []byte(",")
	spaceBytes             = []byte(" ")
	keyValueSeparatorBytes = []byte(": ")
)
