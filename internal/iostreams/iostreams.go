// Package iostreams bundles the standard streams of the jsonstreams command
// with terminal detection and error styling.
package iostreams

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IOStreams bundles the three standard streams together with display options.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	stdoutTTY    bool
	stderrTTY    bool
	colorEnabled bool
	profile      termenv.Profile
}

// New returns IOStreams wired to the real stdin/stdout/stderr.
// Errors are colored when stderr is a terminal and NO_COLOR is not set.
func New() *IOStreams {
	s := &IOStreams{
		In:        os.Stdin,
		Out:       os.Stdout,
		ErrOut:    os.Stderr,
		stdoutTTY: isTerminal(os.Stdout),
		stderrTTY: isTerminal(os.Stderr),
		profile:   termenv.ColorProfile(),
	}
	if s.stderrTTY && os.Getenv("NO_COLOR") == "" {
		s.ErrOut = colorable.NewColorableStderr()
		s.colorEnabled = true
	}
	return s
}

// Test returns IOStreams reading from and writing to buffers, as used in
// tests.  No stream is a terminal.
func Test() (s *IOStreams, in, out, errOut *bytes.Buffer) {
	in = &bytes.Buffer{}
	out = &bytes.Buffer{}
	errOut = &bytes.Buffer{}
	s = &IOStreams{
		In:      in,
		Out:     out,
		ErrOut:  errOut,
		profile: termenv.Ascii,
	}
	return s, in, out, errOut
}

// IsStdoutTTY reports whether Out is a terminal.
func (s *IOStreams) IsStdoutTTY() bool {
	return s.stdoutTTY
}

// SetStdoutTTY overrides terminal detection for Out.
func (s *IOStreams) SetStdoutTTY(tty bool) {
	s.stdoutTTY = tty
}

// IsStderrTTY reports whether ErrOut is a terminal.
func (s *IOStreams) IsStderrTTY() bool {
	return s.stderrTTY
}

// SetStderrTTY overrides terminal detection for ErrOut.
func (s *IOStreams) SetStderrTTY(tty bool) {
	s.stderrTTY = tty
}

// SetColorProfile enables colored errors with the given profile, or disables
// them with termenv.Ascii.
func (s *IOStreams) SetColorProfile(p termenv.Profile) {
	s.profile = p
	s.colorEnabled = p != termenv.Ascii
}

// Errorf writes formatted output to ErrOut.
func (s *IOStreams) Errorf(format string, a ...any) {
	fmt.Fprintf(s.ErrOut, format, a...)
}

// Failure returns text styled as red (error).
func (s *IOStreams) Failure(text string) string {
	if !s.colorEnabled {
		return text
	}
	return termenv.String(text).Foreground(s.profile.Color("1")).String()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
