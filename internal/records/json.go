package records

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// JSONReader reads a stream of JSON values, e.g. JSON Lines.  Values may be
// separated by any amount of whitespace.
type JSONReader struct {
	dec   *jsoniter.Decoder
	count int
}

// NewJSONReader returns a JSONReader reading from in.
func NewJSONReader(in io.Reader) *JSONReader {
	return &JSONReader{dec: jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(in)}
}

// Next returns the next JSON value.
func (r *JSONReader) Next() (any, error) {
	// Decode reports trailing whitespace as a null value, More skips it.
	if !r.dec.More() {
		return nil, io.EOF
	}
	var v any
	if err := r.dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decoding JSON record %d: %w", r.count+1, err)
	}
	r.count++
	return v, nil
}
