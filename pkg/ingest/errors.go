package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadable is returned when a source file cannot be opened or read
	ErrUnreadable = errors.New("input file unreadable")

	// ErrDataFormat matches every *FormatError
	ErrDataFormat = errors.New("data format error")

	// ErrMalformedRow marks a row with the wrong column count or a bad value
	ErrMalformedRow = errors.New("malformed row")

	// ErrTimestamp marks a timestamp that does not match the fixed layout
	ErrTimestamp = errors.New("unparsable timestamp")
)

// FormatError describes a bad row in a source file.
// It unwraps to ErrMalformedRow or ErrTimestamp and also matches ErrDataFormat.
type FormatError struct {
	Source string
	Line   int
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v: %s", e.Source, e.Line, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Source, e.Err, e.Detail)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDataFormat) hold for any format error
func (e *FormatError) Is(target error) bool {
	return target == ErrDataFormat
}
