package salessuite

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const defaultErrorMessage = "SalesSuite API request failed."

// APIError is the single error type for transport and non-2xx failures
type APIError struct {
	Message    string
	StatusCode int
	URL        string
	Method     string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorMessage prefers the remote error body, compacted when it is JSON
func errorMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
		return string(trimmed)
	}
	if status != 0 {
		return fmt.Sprintf("Request failed with status code %d", status)
	}
	return defaultErrorMessage
}
