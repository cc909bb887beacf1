package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 << 10

// Error is a non-2xx response.
type Error struct {
	Status     int
	StatusText string
	// Body is the decoded JSON body, or the raw text when it is not JSON.
	Body    any
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.StatusText)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func newError(resp *http.Response) *Error {
	e := &Error{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(data))
	if text == "" {
		return e
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		e.Body = text
		e.Message = text
		return e
	}
	e.Body = decoded
	e.Message = messageFrom(decoded)
	return e
}

// messageFrom picks the human readable message out of the API's error shapes.
func messageFrom(body any) string {
	switch v := body.(type) {
	case string:
		return v
	case map[string]any:
		for _, field := range []string{"response", "message", "error"} {
			if s, ok := v[field].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
