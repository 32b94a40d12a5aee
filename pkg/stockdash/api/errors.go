package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError reports a failed request: a transport failure (Err set,
// StatusCode zero), a non-2xx response, or an unusable response body.
type NetworkError struct {
	Op         string
	Method     string
	URL        string
	RequestID  string
	StatusCode int
	Status     string
	Message    string // server supplied "error" or "message"
	Err        error
}

func newStatusError(op, method, url, reqID string, code int, msg string) *NetworkError {
	return &NetworkError{
		Op:         op,
		Method:     method,
		URL:        url,
		RequestID:  reqID,
		StatusCode: code,
		Status:     http.StatusText(code),
		Message:    msg,
	}
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %d %s: %v", e.Op, e.StatusCode, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Status)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var ne *NetworkError
	if errors.As(err, &ne) {
		if ne.Message != "" {
			return ne.Message
		}
		if ne.StatusCode == 0 && ne.Err != nil {
			return "Network error: " + ne.Err.Error()
		}
		return fmt.Sprintf("%s failed: %d %s", ne.Op, ne.StatusCode, ne.Status)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func hasStatus(err error, code int) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.StatusCode == code
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool { return hasStatus(err, http.StatusConflict) }
