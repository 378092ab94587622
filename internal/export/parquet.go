package export

import (
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

const parquetBatchSize = 50000

// parquetEvent is the Parquet schema struct.
type parquetEvent struct {
	Ts      int64  `parquet:"ts,timestamp(millisecond)"`
	Stream  string `parquet:"stream"`
	EventID string `parquet:"event_id"`
	Msg     string `parquet:"msg"`
}

type parquetWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[parquetEvent]
	batch  []parquetEvent
}

func newParquetWriter(path string) (*parquetWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := parquet.NewGenericWriter[parquetEvent](f,
		parquet.Compression(&zstd.Codec{}),
	)

	return &parquetWriter{
		file:   f,
		writer: w,
		batch:  make([]parquetEvent, 0, parquetBatchSize),
	}, nil
}

func (w *parquetWriter) Write(e cwl.Event) error {
	w.batch = append(w.batch, parquetEvent{
		Ts:      e.Timestamp,
		Stream:  e.LogStreamName,
		EventID: e.EventID,
		Msg:     e.Message,
	})
	if len(w.batch) >= parquetBatchSize {
		return w.flush()
	}
	return nil
}

func (w *parquetWriter) flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	_, err := w.writer.Write(w.batch)
	w.batch = w.batch[:0]
	return err
}

func (w *parquetWriter) Close() error {
	if err := w.flush(); err != nil {
		_ = w.writer.Close()
		_ = w.file.Close()
		return err
	}
	if err := w.writer.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
