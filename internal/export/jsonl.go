package export

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ppiankov/cwgrep/internal/cwl"
)

type jsonlWriter struct {
	file *os.File
	zw   *zstd.Encoder // nil when uncompressed
	buf  *bufio.Writer
	enc  *json.Encoder
}

func newJSONLWriter(path string, compress bool) (*jsonlWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &jsonlWriter{file: f}
	var sink io.Writer = f
	if compress {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		w.zw = zw
		sink = zw
	}

	w.buf = bufio.NewWriter(sink)
	w.enc = json.NewEncoder(w.buf)
	w.enc.SetEscapeHTML(false)

	return w, nil
}

func (w *jsonlWriter) Write(e cwl.Event) error {
	return w.enc.Encode(e)
}

func (w *jsonlWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		if w.zw != nil {
			_ = w.zw.Close()
		}
		_ = w.file.Close()
		return err
	}
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			_ = w.file.Close()
			return err
		}
	}
	return w.file.Close()
}
