package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// A CSVReader reads CSV input and returns a record for each row.
type CSVReader struct {
	reader     *csv.Reader
	HasHeader  bool // When true, treat the first row as a header
	fieldNames []string
	rowCount   int
}

// NewCSVReader sets up a new CSVReader instance to read from the given input.
func NewCSVReader(in io.Reader) *CSVReader {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	return &CSVReader{reader: r}
}

// SetFieldNames sets the field names for records.  Should be called before
// Next.
func (r *CSVReader) SetFieldNames(names []string) {
	r.fieldNames = append(r.fieldNames[:0], names...)
}

// Next returns the next row as an object mapping field names to values.
// Rows with more fields than there are names get names field_N.
func (r *CSVReader) Next() (any, error) {
	for {
		row, err := r.reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		r.rowCount++
		if r.rowCount == 1 && r.HasHeader {
			r.SetFieldNames(row)
			continue
		}
		rec := make(map[string]any, len(row))
		for i, field := range row {
			rec[r.fieldName(i)] = fieldValue(field)
		}
		return rec, nil
	}
}

func (r *CSVReader) fieldName(i int) string {
	for j := len(r.fieldNames); j <= i; j++ {
		r.fieldNames = append(r.fieldNames, fmt.Sprintf("field_%d", j+1))
	}
	return r.fieldNames[i]
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// fieldValue converts a CSV field to a JSON value: the empty field is null,
// true and false are booleans, JSON numbers are numbers and everything else
// is a string.
func fieldValue(field string) any {
	switch field {
	case "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if jsonNumber.MatchString(field) {
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return f
		}
	}
	return field
}
