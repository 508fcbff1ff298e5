package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the read buffer capacity used when none is given
const DefaultBufferSize = 4096

// maxConsecutiveEmptyReads bounds how often a reader may return (0, nil)
// before ReadRaw gives up, same as bufio.
const maxConsecutiveEmptyReads = 100

var (
	ErrRead         = errors.New("read error")
	ErrEmptyRequest = errors.New("empty request")

	crlf             = []byte("\r\n")
	headerTerminator = []byte("\r\n\r\n")
)

// ReadRaw fills buf from r until the end-of-headers marker has been seen,
// buf is full, or the peer closes the stream. It returns the number of
// bytes stored. A peer close is not an error; any other read failure is
// returned wrapped in ErrRead.
func ReadRaw(r io.Reader, buf []byte) (int, error) {
	total := 0
	empty := 0

	for total < len(buf) {
		n, err := r.Read(buf[total:])
		if n > 0 {
			// the marker may straddle the previous read, so look back 3 bytes
			from := total - (len(headerTerminator) - 1)
			if from < 0 {
				from = 0
			}
			total += n
			if bytes.Contains(buf[from:total], headerTerminator) {
				return total, nil
			}
			empty = 0
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, fmt.Errorf("%w: %w", ErrRead, err)
		}

		if n == 0 {
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return total, fmt.Errorf("%w: %w", ErrRead, io.ErrNoProgress)
			}
		}
	}

	return total, nil
}

// Parse parses a raw request buffer into a Request. The returned request
// aliases data; it must not be used after data is reused.
//
// Header lines after the request line are collected until an empty line
// or the end of data. A trailing fragment with no line terminator is
// ignored since it may have been cut off by the buffer limit. At most
// maxHeaders lines are kept (headers.DefaultMaxLines if maxHeaders <= 0).
func Parse(data []byte, maxHeaders int) (*Request, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRequest
	}

	line, rest, found := bytes.Cut(data, crlf)

	method, path, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	req := newRequest(method, path, version, maxHeaders)
	if !found {
		return req, nil
	}

	for len(rest) > 0 {
		idx := bytes.Index(rest, crlf)
		if idx == -1 {
			break
		}
		if idx == 0 {
			// Empty line = end of headers
			break
		}

		req.Headers.Add(rest[:idx])
		rest = rest[idx+len(crlf):]
	}

	return req, nil
}
