package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSV_Valid(t *testing.T) {
	input := "2024-01-01T12:00:00.000000Z,415.2\n" +
		"2024-01-01T12:01:00.000000Z, 416\n" +
		"\n" +
		"2024-01-01T12:02:00.000000Z,-3.5e1\n"

	records, err := ReadCSV(strings.NewReader(input), "co2.csv")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	want := []Record{
		{Line: 1, Timestamp: "2024-01-01T12:00:00.000000Z", Value: 415.2},
		{Line: 2, Timestamp: "2024-01-01T12:01:00.000000Z", Value: 416},
		{Line: 4, Timestamp: "2024-01-01T12:02:00.000000Z", Value: -35},
	}
	for i, r := range records {
		if r != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestReadCSV_MalformedRows(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{
			name:     "one column",
			input:    "2024-01-01T12:00:00.000000Z\n",
			wantLine: 1,
		},
		{
			name:     "three columns",
			input:    "2024-01-01T12:00:00.000000Z,1\n2024-01-01T12:01:00.000000Z,1,2\n",
			wantLine: 2,
		},
		{
			name:     "non-numeric value",
			input:    "2024-01-01T12:00:00.000000Z,abc\n",
			wantLine: 1,
		},
		{
			name:     "empty value",
			input:    "2024-01-01T12:00:00.000000Z,\n",
			wantLine: 1,
		},
		{
			name:     "NaN value",
			input:    "2024-01-01T12:00:00.000000Z,NaN\n",
			wantLine: 1,
		},
		{
			name:     "bare quote",
			input:    "2024-01-01T12:00:00.000000Z,1\"2\n",
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "bad.csv")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedRow) {
				t.Errorf("Expected ErrMalformedRow, got %v", err)
			}
			if !errors.Is(err, ErrDataFormat) {
				t.Errorf("Expected ErrDataFormat, got %v", err)
			}

			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FormatError, got %T", err)
			}
			if fe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", fe.Line, tt.wantLine)
			}
			if fe.Source != "bad.csv" {
				t.Errorf("Source = %q, want %q", fe.Source, "bad.csv")
			}
		})
	}
}

func TestLoadCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "humidity.csv")
	if err := os.WriteFile(path, []byte("2024-01-01T00:00:00.000000Z,40.5\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(records) != 1 || records[0].Value != 40.5 {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestLoadCSV_Unreadable(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("Expected ErrUnreadable, got %v", err)
	}
	if errors.Is(err, ErrDataFormat) {
		t.Error("Unreadable file should not be a data format error")
	}
}
