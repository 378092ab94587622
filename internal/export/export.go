// Package export writes filtered event sets to analytics-friendly file
// formats: JSONL (optionally zstd-compressed), CSV, and Parquet.
package export

import (
	"fmt"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

// Format identifies the output format.
type Format string

const (
	FormatJSONL   Format = "jsonl"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSONL, FormatCSV, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: expected jsonl, csv, or parquet", s)
	}
}

// Writer writes events to an output file.
type Writer interface {
	Write(cwl.Event) error
	Close() error
}

// Options controls writer construction.
type Options struct {
	Compress bool // zstd-compress JSONL output; ignored for other formats
}

// NewWriter creates a Writer for the given path and format.
func NewWriter(path string, format Format, opts Options) (Writer, error) {
	switch format {
	case FormatJSONL:
		return newJSONLWriter(path, opts.Compress)
	case FormatCSV:
		return newCSVWriter(path)
	case FormatParquet:
		return newParquetWriter(path)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// WriteAll writes every event through a fresh writer and closes it.
// Returns the number of events written.
func WriteAll(path string, format Format, opts Options, events []cwl.Event) (int, error) {
	w, err := NewWriter(path, format, opts)
	if err != nil {
		return 0, fmt.Errorf("create writer: %w", err)
	}

	for i, ev := range events {
		if err := w.Write(ev); err != nil {
			_ = w.Close()
			return i, fmt.Errorf("write event: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return len(events), fmt.Errorf("close writer: %w", err)
	}
	return len(events), nil
}
