package response

import (
	"bytes"
	"strconv"
)

// ParseContentLength reads the Content-Length header back out of a built
// response. ok is false when the header is absent or not a number.
func ParseContentLength(raw []byte) (int, bool) {
	head, _, _ := bytes.Cut(raw, []byte(lineEnd+lineEnd))

	for _, line := range bytes.Split(head, []byte(lineEnd)) {
		v, found := bytes.CutPrefix(line, []byte(contentLengthPrefix))
		if !found {
			continue
		}
		n, err := strconv.Atoi(string(v))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// SplitMessage returns the head (status line and headers, without the
// blank line) and the body of a built response.
func SplitMessage(raw []byte) (head, body []byte) {
	head, body, _ = bytes.Cut(raw, []byte(lineEnd+lineEnd))
	return head, body
}
