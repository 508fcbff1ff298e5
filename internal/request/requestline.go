package request

import (
	"bytes"
	"errors"
)

var ErrMalformedRequestLine = errors.New("malformed request line")

// parseRequestLine parses: METHOD PATH VERSION
// The version is returned but never validated.
func parseRequestLine(line []byte) (method, path, version []byte, err error) {
	method, rest, ok := bytes.Cut(line, []byte(" "))
	if !ok || len(method) == 0 {
		return nil, nil, nil, ErrMalformedRequestLine
	}

	path, version, ok = bytes.Cut(rest, []byte(" "))
	if !ok || len(path) == 0 {
		return nil, nil, nil, ErrMalformedRequestLine
	}

	return method, path, version, nil
}
