package jsonstreams

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type valueGenerator struct {
	rnd *rand.Rand
}

var stringAlphabet = []rune("abcXYZ019 \"\\/\n\t\u0001<>&éß€😀 ")

func (g valueGenerator) string() string {
	n := g.rnd.Intn(8)
	r := make([]rune, n)
	for i := range r {
		r[i] = stringAlphabet[g.rnd.Intn(len(stringAlphabet))]
	}
	return string(r)
}

func (g valueGenerator) scalar() any {
	switch g.rnd.Intn(6) {
	case 0:
		return nil
	case 1:
		return g.rnd.Intn(2) == 0
	case 2:
		return float64(g.rnd.Int63n(1<<53) - 1<<52)
	case 3:
		return g.rnd.NormFloat64() * 1e6
	default:
		return g.string()
	}
}

// value returns a value made of the types encoding/json decodes into, so
// that decoding the output gives back an equal value.
func (g valueGenerator) value(depth int) any {
	if depth <= 0 {
		return g.scalar()
	}
	switch g.rnd.Intn(4) {
	case 0:
		n := g.rnd.Intn(4)
		a := make([]any, n)
		for i := range a {
			a[i] = g.value(depth - 1)
		}
		return a
	case 1:
		n := g.rnd.Intn(4)
		m := make(map[string]any, n)
		for range n {
			m[g.string()] = g.value(depth - 1)
		}
		return m
	default:
		return g.scalar()
	}
}

// stream writes v using sub-containers for every array and object.
func streamArrayItem(a *Array, v any) error {
	switch x := v.(type) {
	case []any:
		return a.WithSubArray(func(a *Array) error {
			for _, item := range x {
				if err := streamArrayItem(a, item); err != nil {
					return err
				}
			}
			return nil
		})
	case map[string]any:
		return a.WithSubObject(func(o *Object) error {
			for k, item := range x {
				if err := streamObjectItem(o, k, item); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return a.Write(v)
	}
}

func streamObjectItem(o *Object, key string, v any) error {
	switch x := v.(type) {
	case []any:
		return o.WithSubArray(key, func(a *Array) error {
			for _, item := range x {
				if err := streamArrayItem(a, item); err != nil {
					return err
				}
			}
			return nil
		})
	case map[string]any:
		return o.WithSubObject(key, func(o *Object) error {
			for k, item := range x {
				if err := streamObjectItem(o, k, item); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return o.Write(key, v)
	}
}

func TestRoundTripIterWrite(t *testing.T) {
	g := valueGenerator{rnd: rand.New(rand.NewSource(42))}
	for i := range 100 {
		values := make([]any, g.rnd.Intn(10))
		for j := range values {
			values[j] = g.value(3)
		}
		for _, enc := range []Encoder{JSONIterEncoder, StdlibEncoder, GoJSONEncoder} {
			var buf bytes.Buffer
			err := WriteArray(&buf, func(s *ArrayStream) error {
				return s.IterWrite(func(yield func(any) bool) {
					for _, v := range values {
						if !yield(v) {
							return
						}
					}
				})
			}, WithEncoder(enc), WithIndent(i%3))
			require.NoError(t, err)

			var got []any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
			if len(values) == 0 {
				require.Empty(t, got)
			} else {
				require.Equal(t, values, got)
			}
		}
	}
}

func TestRoundTripObjectIterWrite(t *testing.T) {
	g := valueGenerator{rnd: rand.New(rand.NewSource(7))}
	for i := range 100 {
		members := make(map[string]any)
		for j := range g.rnd.Intn(10) {
			members[fmt.Sprintf("k%d", j)] = g.value(2)
		}
		var buf bytes.Buffer
		err := WriteObject(&buf, func(s *ObjectStream) error {
			return s.IterWrite(func(yield func(any, any) bool) {
				for k, v := range members {
					if !yield(k, v) {
						return
					}
				}
			})
		}, WithIndent(i%5))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
		require.Equal(t, members, got)
	}
}

func TestRoundTripStreamedContainers(t *testing.T) {
	g := valueGenerator{rnd: rand.New(rand.NewSource(1))}
	for i := range 200 {
		root := make([]any, g.rnd.Intn(5))
		for j := range root {
			root[j] = g.value(4)
		}
		var buf bytes.Buffer
		err := WriteArray(&buf, func(s *ArrayStream) error {
			for _, v := range root {
				if err := streamArrayItem(s.Array, v); err != nil {
					return err
				}
			}
			return nil
		}, WithIndent(i%4))
		require.NoError(t, err)
		require.True(t, json.Valid(buf.Bytes()), buf.String())

		var got []any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		if len(root) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, root, got)
		}
	}
}
