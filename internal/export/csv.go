package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

type csvWriter struct {
	file *os.File
	w    *csv.Writer
}

func newCSVWriter(path string) (*csvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ts", "stream", "event_id", "msg"}); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &csvWriter{file: f, w: w}, nil
}

func (w *csvWriter) Write(e cwl.Event) error {
	return w.w.Write([]string{
		strconv.FormatInt(e.Timestamp, 10),
		e.LogStreamName,
		e.EventID,
		e.Message,
	})
}

func (w *csvWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
