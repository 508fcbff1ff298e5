package response

import (
	"errors"
	"io"
	"syscall"
)

// Writer sends built responses to an io.Writer, usually a connection
type Writer struct {
	w          io.Writer
	statusCode StatusCode
	written    int
	hadError   bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send builds r and writes the whole payload. It returns the number of
// bytes written, which is less than the payload size only on error.
func (w *Writer) Send(r Response) (int, error) {
	payload := Build(r)
	w.statusCode = r.Status

	n, err := WriteAll(w.w, payload)
	w.written += n
	if err != nil {
		w.hadError = true
	}
	return n, err
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}

func (w *Writer) BytesWritten() int {
	return w.written
}

// WriteAll writes payload to w, resuming from the last byte written when
// a write is interrupted by a signal. Any other error stops the loop.
func WriteAll(w io.Writer, payload []byte) (int, error) {
	total := 0
	for total < len(payload) {
		n, err := w.Write(payload[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
