// Package ingest reads the headerless two-column sensor CSV files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Record is one raw CSV row: an unparsed timestamp and its value
type Record struct {
	Line      int
	Timestamp string
	Value     float64
}

// LoadCSV reads all records from the file at path
func LoadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer file.Close()

	return ReadCSV(file, path)
}

// ReadCSV reads records in input order. source is only used in error messages.
// Any bad row fails the whole read.
func ReadCSV(r io.Reader, source string) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column count is checked per row for better errors
	reader.TrimLeadingSpace = true

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &FormatError{
					Source: source,
					Line:   parseErr.Line,
					Detail: parseErr.Err.Error(),
					Err:    ErrMalformedRow,
				}
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, source, err)
		}

		line, _ := reader.FieldPos(0)

		if len(row) != 2 {
			return nil, &FormatError{
				Source: source,
				Line:   line,
				Detail: fmt.Sprintf("expected 2 fields, got %d", len(row)),
				Err:    ErrMalformedRow,
			}
		}

		valStr := strings.TrimSpace(row[1])
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &FormatError{
				Source: source,
				Line:   line,
				Detail: fmt.Sprintf("value %q is not a finite number", valStr),
				Err:    ErrMalformedRow,
			}
		}

		records = append(records, Record{
			Line:      line,
			Timestamp: strings.TrimSpace(row[0]),
			Value:     val,
		})
	}

	return records, nil
}
