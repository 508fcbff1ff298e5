package response

import (
	"errors"
	"fmt"
	"strconv"
)

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusMethodNotAllowed    StatusCode = 405
	StatusInternalServerError StatusCode = 500
)

// statusText maps the supported status codes to reason phrases
var statusText = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
}

// ErrUnsupportedStatus is the panic value (wrapped) raised by Build for a
// status code outside statusText.
var ErrUnsupportedStatus = errors.New("unsupported status code")

const (
	protoPrefix         = "HTTP/1.1 "
	contentTypeLine     = "Content-Type: text/plain\r\n"
	contentLengthPrefix = "Content-Length: "
	lineEnd             = "\r\n"
)

// Response is a status code with an optional plain text body. HasBody
// distinguishes an empty body (Content-Length: 0) from no body at all.
type Response struct {
	Status  StatusCode
	Body    []byte
	HasBody bool
}

// Status returns a body-less response
func Status(code StatusCode) Response {
	return Response{Status: code}
}

// Text returns a text/plain response carrying body, which may be empty
func Text(code StatusCode, body []byte) Response {
	return Response{Status: code, Body: body, HasBody: true}
}

// Build serializes r into a single buffer whose length and capacity are
// exactly the size of the message. It panics if r.Status is not supported.
func Build(r Response) []byte {
	if !Supported(r.Status) {
		panic(fmt.Errorf("%w: %d", ErrUnsupportedStatus, r.Status))
	}
	reason := StatusText(r.Status)

	code := strconv.Itoa(int(r.Status))

	// status line + blank line
	size := len(protoPrefix) + len(code) + 1 + len(reason) + 2*len(lineEnd)

	var length string
	if r.HasBody {
		length = strconv.Itoa(len(r.Body))
		size += len(contentTypeLine) +
			len(contentLengthPrefix) + len(length) + len(lineEnd) +
			len(r.Body)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, protoPrefix...)
	buf = append(buf, code...)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, lineEnd...)

	if r.HasBody {
		buf = append(buf, contentTypeLine...)
		buf = append(buf, contentLengthPrefix...)
		buf = append(buf, length...)
		buf = append(buf, lineEnd...)
	}

	buf = append(buf, lineEnd...)

	if r.HasBody {
		buf = append(buf, r.Body...)
	}

	return buf
}
