package request

import (
	"io"

	"github.com/Brownie44l1/http-pool/internal/headers"
)

// Request is a parsed request head. Method, Path and Version point into
// the buffer the request was parsed from.
type Request struct {
	Method  []byte
	Path    []byte
	Version []byte
	Headers *headers.Headers
}

func newRequest(method, path, version []byte, maxHeaders int) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Version: version,
		Headers: headers.NewHeaders(maxHeaders),
	}
}

// MethodString returns a copy of the method
func (r *Request) MethodString() string {
	return string(r.Method)
}

// PathString returns a copy of the path
func (r *Request) PathString() string {
	return string(r.Path)
}

// HeaderValue looks up a header by name, ignoring case
func (r *Request) HeaderValue(name string) ([]byte, bool) {
	return r.Headers.GetBytes(name)
}

// ReadRequest reads one request head from reader into buf and parses it.
// buf bounds how much is read; the request aliases it.
func ReadRequest(reader io.Reader, buf []byte, maxHeaders int) (*Request, error) {
	n, err := ReadRaw(reader, buf)
	if err != nil {
		return nil, err
	}
	return Parse(buf[:n], maxHeaders)
}
