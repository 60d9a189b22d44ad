package jsonstreams

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arnodel/jsonstreams/internal/mocks"
)

// closeRecorder is an external sink that records whether it was closed.
type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (w *closeRecorder) Close() error {
	w.closed = true
	return nil
}

// failAfter fails all writes after n successful ones.
type failAfter struct {
	n   int
	err error
	buf bytes.Buffer
}

func (w *failAfter) Write(b []byte) (int, error) {
	if w.n <= 0 {
		return 0, w.err
	}
	w.n--
	return w.buf.Write(b)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCreateObjectStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	s, err := CreateObjectStream(path)
	require.NoError(t, err)
	require.NoError(t, s.Write("foo", "bar"))
	require.NoError(t, s.Close())
	require.Equal(t, `{"foo": "bar"}`, readFile(t, path))

	require.ErrorIs(t, s.Close(), ErrStreamClosed)
}

func TestCreateArrayStreamIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	s, err := CreateArrayStream(path, WithIndent(4), WithBufferSize(16))
	require.NoError(t, err)
	require.NoError(t, s.Write("foo"))
	require.NoError(t, s.Write("bar"))
	require.NoError(t, s.Close())
	require.Equal(t, "[\n    \"foo\",\n    \"bar\"\n]", readFile(t, path))
}

func TestCreateStreamFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "foo")
	_, err := CreateObjectStream(path)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "open", ioErr.Op)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = CreateArrayStream(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExternalSinkIsNotClosed(t *testing.T) {
	w := &closeRecorder{}
	s, err := NewArrayStream(w)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.False(t, w.closed)
	require.Equal(t, "[]", w.String())
}

func TestWriteObjectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	err := WriteObjectFile(path, func(s *ObjectStream) error {
		return s.WithSubArray("foo", func(a *Array) error {
			return a.WithSubArray(func(b *Array) error {
				return b.WithSubObject(func(c *Object) error {
					return c.WithSubObject("bar", func(*Object) error { return nil })
				})
			})
		})
	})
	require.NoError(t, err)
	require.Equal(t, `{"foo": [[{"bar": {}}]]}`, readFile(t, path))
}

func TestWriteArrayFileExplicitClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	err := WriteArrayFile(path, func(s *ArrayStream) error {
		if err := s.Write(1); err != nil {
			return err
		}
		return s.Close()
	})
	require.NoError(t, err)
	require.Equal(t, `[1]`, readFile(t, path))
}

func TestWriteArrayError(t *testing.T) {
	var buf bytes.Buffer
	failure := errors.New("failure")
	err := WriteArray(&buf, func(s *ArrayStream) error {
		_ = s.Write("foo")
		return failure
	})
	require.ErrorIs(t, err, failure)
	require.Equal(t, `["foo"]`, buf.String())
}

func TestWriteObjectPanic(t *testing.T) {
	var buf bytes.Buffer
	require.Panics(t, func() {
		_ = WriteObject(&buf, func(s *ObjectStream) error {
			_ = s.Write("foo", 1)
			panic("boom")
		}, WithIndent(2))
	})
	require.Equal(t, "{\n  \"foo\": 1\n}", buf.String())
}

func TestWriteObjectUnclosedChild(t *testing.T) {
	var buf bytes.Buffer
	err := WriteObject(&buf, func(s *ObjectStream) error {
		_, err := s.SubObject("foo")
		return err
	})
	require.ErrorIs(t, err, ErrWrongChildActive)
}

func TestInvalidOptions(t *testing.T) {
	_, err := NewObjectStream(&bytes.Buffer{}, WithIndent(-1))
	require.Error(t, err)
	_, err = CreateArrayStream(filepath.Join(t.TempDir(), "foo"), WithBufferSize(0))
	require.Error(t, err)
}

func TestIOFailure(t *testing.T) {
	sinkErr := errors.New("disk full")

	_, err := NewArrayStream(&failAfter{err: sinkErr})
	require.ErrorIs(t, err, sinkErr)

	w := &failAfter{n: 2, err: sinkErr}
	s, err := NewObjectStream(w)
	require.NoError(t, err)
	require.NoError(t, s.Write("a", 1))

	err = s.Write("b", 2)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "write", ioErr.Op)
	require.ErrorIs(t, err, sinkErr)

	_, err = s.SubArray("c")
	require.ErrorIs(t, err, sinkErr)
	require.ErrorIs(t, s.Close(), sinkErr)
	require.ErrorIs(t, s.Close(), ErrStreamClosed)

	require.Equal(t, `{"a": 1`, w.buf.String())
}

func TestEncoderFailureWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	enc := mocks.NewMockEncoder(ctrl)
	encErr := errors.New("cannot encode")
	enc.EXPECT().Encode("key").Return([]byte(`"key"`), nil).Times(2)
	enc.EXPECT().Encode("bad").Return(nil, encErr)
	enc.EXPECT().Encode("good").Return([]byte(`"good"`), nil)

	s, buf := newTestObject(t, WithEncoder(enc))
	err := s.Write("key", "bad")
	require.ErrorIs(t, err, encErr)
	var eerr *EncodeError
	require.ErrorAs(t, err, &eerr)
	require.Equal(t, "{", buf.String())

	require.NoError(t, s.Write("key", "good"))
	require.NoError(t, s.Close())
	require.Equal(t, `{"key": "good"}`, buf.String())
}

func TestUnsupportedValue(t *testing.T) {
	for _, enc := range []Encoder{JSONIterEncoder, StdlibEncoder, GoJSONEncoder} {
		s, buf := newTestArray(t, WithEncoder(enc))
		var eerr *EncodeError
		require.ErrorAs(t, s.Write(make(chan int)), &eerr)
		require.NoError(t, s.Close())
		require.Equal(t, "[]", buf.String())
	}
}

func TestAutoFlush(t *testing.T) {
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	s, err := NewArrayStream(w, WithAutoFlush())
	require.NoError(t, err)
	require.NoError(t, s.Write(1))
	require.Equal(t, "[1", out.String())
	require.NoError(t, s.Close())
	require.Equal(t, "[1]", out.String())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Object")
	require.NoError(t, err)
	require.Equal(t, ObjectKind, k)
	k, err = ParseKind("array")
	require.NoError(t, err)
	require.Equal(t, "array", k.String())
	_, err = ParseKind("list")
	require.Error(t, err)
}

func TestRootCloseFlushesOwnedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo")
	s, err := CreateObjectStream(path)
	require.NoError(t, err)
	require.NoError(t, s.Write("foo", "bar"))
	require.NoError(t, s.Object.Close())
	require.True(t, s.sink.closed)
	require.Equal(t, `{"foo": "bar"}`, readFile(t, path))
	require.ErrorIs(t, s.Close(), ErrStreamClosed)

	path = filepath.Join(t.TempDir(), "bar")
	a, err := CreateArrayStream(path)
	require.NoError(t, err)
	require.NoError(t, a.Write(1))
	require.NoError(t, a.Array.Close())
	require.Equal(t, `[1]`, readFile(t, path))
	require.ErrorIs(t, a.Close(), ErrStreamClosed)
}

func TestOwnedSinkClosedOnWriteFailure(t *testing.T) {
	diskFull := errors.New("no space left on device")
	for _, kind := range []Kind{ObjectKind, ArrayKind} {
		t.Run(kind.String(), func(t *testing.T) {
			file := &closeRecorder{}
			buf := bufio.NewWriterSize(&failAfter{err: diskFull}, 16)
			snk := &sink{w: buf, buf: buf, closer: file}
			o, err := buildOptions(nil)
			require.NoError(t, err)

			var closeStream func() error
			if kind == ObjectKind {
				s, err := newObjectStream(snk, o)
				require.NoError(t, err)
				require.Error(t, s.Write("key", "a value longer than the buffer"))
				closeStream = s.Close
			} else {
				s, err := newArrayStream(snk, o)
				require.NoError(t, err)
				require.Error(t, s.Write("a value longer than the buffer"))
				closeStream = s.Close
			}

			err = closeStream()
			var ioErr *IOError
			require.ErrorAs(t, err, &ioErr)
			require.ErrorIs(t, err, diskFull)
			require.True(t, file.closed)
			require.True(t, snk.closed)

			require.ErrorIs(t, closeStream(), ErrStreamClosed)
		})
	}
}
