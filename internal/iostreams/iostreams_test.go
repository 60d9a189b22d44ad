package iostreams

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestFailure(t *testing.T) {
	s, _, _, errOut := Test()
	require.Equal(t, "boom", s.Failure("boom"))

	s.SetColorProfile(termenv.ANSI)
	styled := s.Failure("boom")
	require.Contains(t, styled, "boom")
	require.Contains(t, styled, "\x1b[31m")

	s.SetColorProfile(termenv.Ascii)
	s.Errorf("%s: %d\n", s.Failure("error"), 42)
	require.Equal(t, "error: 42\n", errOut.String())
}

func TestTTYOverrides(t *testing.T) {
	s, _, _, _ := Test()
	require.False(t, s.IsStdoutTTY())
	require.False(t, s.IsStderrTTY())
	s.SetStdoutTTY(true)
	s.SetStderrTTY(true)
	require.True(t, s.IsStdoutTTY())
	require.True(t, s.IsStderrTTY())
}
