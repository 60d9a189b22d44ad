package jsonstreams

import (
	"encoding/json"
	"fmt"

	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

//go:generate mockgen -source=encoder.go -destination=./internal/mocks/mock_encoder.go -package=mocks

// An Encoder renders a single value as JSON text.  Its output is spliced
// verbatim into the stream, so it must be valid JSON and should not contain
// new lines.  Nested structures passed to Write are encoded whole by the
// Encoder, they are not streamed.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// EncoderFunc adapts a marshaling function to the Encoder interface.
type EncoderFunc func(v any) ([]byte, error)

func (f EncoderFunc) Encode(v any) ([]byte, error) {
	return f(v)
}

var jsoniterConfig = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var (
	// JSONIterEncoder is the default Encoder.  Map keys are sorted so that
	// output is deterministic.
	//
	// Like all the provided encoders, it renders values compactly: a nested
	// structure passed to Write comes out as {"foo":"bar"} or ["a","b"],
	// without the ", " and ": " separators the stream puts between the items
	// it writes itself.  Use SubObject and SubArray to get the stream's
	// layout at every level.
	JSONIterEncoder Encoder = EncoderFunc(jsoniterConfig.Marshal)

	// StdlibEncoder uses encoding/json.
	StdlibEncoder Encoder = EncoderFunc(json.Marshal)

	// GoJSONEncoder uses github.com/goccy/go-json.
	GoJSONEncoder Encoder = EncoderFunc(gojson.Marshal)

	// DefaultEncoder is used when no encoder is given with WithEncoder.
	DefaultEncoder = JSONIterEncoder
)

var encodersByName = map[string]Encoder{
	"jsoniter": JSONIterEncoder,
	"std":      StdlibEncoder,
	"go-json":  GoJSONEncoder,
}

// EncoderNames lists the names accepted by EncoderByName.
func EncoderNames() []string {
	return []string{"jsoniter", "std", "go-json"}
}

// EncoderByName returns one of the provided encoders.
func EncoderByName(name string) (Encoder, error) {
	enc, ok := encodersByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoder %q", name)
	}
	return enc, nil
}
