package response

// StatusText returns the reason phrase for a supported status code
func StatusText(code StatusCode) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// Supported reports whether Build accepts the code
func Supported(code StatusCode) bool {
	_, ok := statusText[code]
	return ok
}

// IsClientError returns true for 4xx status codes
func (code StatusCode) IsClientError() bool {
	return code >= 400 && code < 500
}

// IsServerError returns true for 5xx status codes
func (code StatusCode) IsServerError() bool {
	return code >= 500 && code < 600
}
