package format

import (
	"fmt"
	"io"
)

// A Flusher is a writer that buffers output, e.g. a *bufio.Writer.
type Flusher interface {
	Flush() error
}

// Printer accumulates the bytes of one item and sends them to its writer in
// a single Write call when Flush is called.  This way a JSON item (e.g. a
// separator, a key and a value) either reaches the writer whole or not at
// all.
//
// Like the rest of the printing code, the methods do not return an error.
// Instead, Flush panics with a *PrinterError when the writer fails.  A user
// of the Printer can use
//
//	func printingFunction(p *Printer) (err error) {
//	    defer CatchPrinterError(&err)
//	    return doSomePrinting(p)
//	}
//
// to capture such errors, or simply call Print.
type Printer struct {
	w io.Writer

	// IndentSize is the number of spaces per indentation level.  When it is
	// 0, NewLine does nothing so all the output is on one single line.
	IndentSize int

	// If Flusher is not nil, it is flushed after every successful Flush.
	Flusher Flusher

	pending []byte
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, indentSize int) *Printer {
	return &Printer{w: w, IndentSize: indentSize}
}

// Indented reports whether the printer inserts new lines.
func (p *Printer) Indented() bool {
	return p.IndentSize > 0
}

// NewLine adds '\n' followed by the number of spaces corresponding to the
// given indentation level.
func (p *Printer) NewLine(level int) {
	if p.IndentSize <= 0 {
		return
	}
	p.pending = append(p.pending, '\n')
	for i := p.IndentSize * level; i > 0; i-- {
		p.pending = append(p.pending, ' ')
	}
}

// PrintBytes adds the given bytes verbatim to the pending output.
func (p *Printer) PrintBytes(b []byte) {
	p.pending = append(p.pending, b...)
}

// Pending returns the output not yet flushed.
func (p *Printer) Pending() []byte {
	return p.pending
}

// Flush sends the pending output to the writer.  Pending output is dropped
// whether the write succeeds or not.
func (p *Printer) Flush() {
	defer p.Discard()
	if len(p.pending) == 0 {
		return
	}
	n, err := p.w.Write(p.pending)
	if err == nil && n < len(p.pending) {
		err = io.ErrShortWrite
	}
	if err != nil {
		panic(wrapError(err))
	}
	if p.Flusher != nil {
		if err := p.Flusher.Flush(); err != nil {
			panic(wrapError(err))
		}
	}
}

// Discard drops the pending output.
func (p *Printer) Discard() {
	p.pending = p.pending[:0]
}

// Print calls f to fill the pending output then flushes it.  If the writer
// fails, the error is returned as a *PrinterError.
func (p *Printer) Print(f func(p *Printer)) (err error) {
	defer CatchPrinterError(&err)
	p.Discard()
	f(p)
	p.Flush()
	return nil
}

// CatchPrinterError can be used to capture panics caused by a Printer because
// of an error encountered while attempting to send output.  See the Printer
// documentation for details.
func CatchPrinterError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(*PrinterError)
		if ok {
			*err = perr
		} else {
			panic(r)
		}
	}
}

// A PrinterError contains an error that occurred while a Printer was
// sending some output.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer error: %s", e.Err)
}

func (e *PrinterError) Unwrap() error {
	return e.Err
}

func wrapError(err error) *PrinterError {
	return &PrinterError{Err: err}
}
