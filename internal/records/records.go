// Package records reads input records (JSON values or CSV rows) one at a
// time, so they can be streamed into a JSON document.
package records

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// A Reader returns records one by one.  Next returns io.EOF when there are
// no more records.
//
// Records use the types encoding/json decodes into: nil, bool, float64,
// string, []any and map[string]any.
type Reader interface {
	Next() (any, error)
}

// Input formats.
const (
	FormatAuto          = "auto"
	FormatJSON          = "json"
	FormatCSV           = "csv"
	FormatCSVWithHeader = "csvh"
)

// Formats lists the valid input formats.
func Formats() []string {
	return []string{FormatAuto, FormatJSON, FormatCSV, FormatCSVWithHeader}
}

// ValidFormat reports whether format is a valid input format.
func ValidFormat(format string) bool {
	for _, f := range Formats() {
		if f == format {
			return true
		}
	}
	return false
}

type formatGuesser struct {
	pattern *regexp.Regexp
	format  string
}

func newFormatGuesser(format string, pattern string) formatGuesser {
	return formatGuesser{
		pattern: regexp.MustCompile(pattern),
		format:  format,
	}
}

var formatGuessers = []formatGuesser{
	newFormatGuesser(FormatJSON, `^\s*([{["]|-?[0-9]|true\b|false\b|null\b)`),
	newFormatGuesser(FormatCSVWithHeader, `^[a-zA-Z][a-zA-Z_0-9-]*(,[a-zA-Z][a-zA-Z_0-9-]*)+(\r?\n|,?$)`),
	newFormatGuesser(FormatCSV, `^([^,"\n]*|("[^"]*"))(,[^,"\n]*|,("[^"]*"))+(\r?\n|,?$)`),
}

// GuessFormat returns the format the input starting with start is likely to
// be in, or "" if it cannot tell.
func GuessFormat(start []byte) string {
	for _, guesser := range formatGuessers {
		if guesser.pattern.Match(start) {
			return guesser.format
		}
	}
	return ""
}

const sniffSize = 64

// Options configures NewReader.
type Options struct {
	// Format is one of the input formats.  With FormatAuto, the format is
	// guessed from the start of the input.
	Format string

	// FieldNames are the CSV field names, used for CSV input without a
	// header row.
	FieldNames []string
}

// NewReader returns a Reader for the given input.
func NewReader(in io.Reader, opts Options) (Reader, error) {
	format := opts.Format
	if format == "" {
		format = FormatAuto
	}
	if format == FormatAuto {
		br := bufio.NewReader(in)
		start, err := br.Peek(sniffSize)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if len(start) == 0 {
			return NewJSONReader(br), nil
		}
		format = GuessFormat(start)
		if format == "" {
			return nil, fmt.Errorf("unable to guess input format, please specify it")
		}
		in = br
	}
	switch format {
	case FormatJSON:
		return NewJSONReader(in), nil
	case FormatCSV:
		r := NewCSVReader(in)
		if len(opts.FieldNames) > 0 {
			r.SetFieldNames(opts.FieldNames)
		}
		return r, nil
	case FormatCSVWithHeader:
		if len(opts.FieldNames) > 0 {
			return nil, fmt.Errorf("field names cannot be given for CSV input with a header row")
		}
		r := NewCSVReader(in)
		r.HasHeader = true
		return r, nil
	default:
		return nil, fmt.Errorf("invalid input format: %q", format)
	}
}

// Concat returns a Reader that reads records from each reader in turn.
func Concat(readers ...Reader) Reader {
	return &multiReader{readers: readers}
}

type multiReader struct {
	readers []Reader
}

func (m *multiReader) Next() (any, error) {
	for len(m.readers) > 0 {
		rec, err := m.readers[0].Next()
		if err == io.EOF {
			m.readers = m.readers[1:]
			continue
		}
		return rec, err
	}
	return nil, io.EOF
}
