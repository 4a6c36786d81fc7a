package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RemoteCallError is returned when a Globus service call does not produce
// the documented success status, or does not complete at all.
// Body holds whatever the service sent back, unmodified.
type RemoteCallError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int // 0 if no response was received
	WantStatus int
	Code       string
	Message    string
	Body       []byte
	Err        error // transport failure, if any
}

// Error implements the error interface.
func (e *RemoteCallError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s: status %d (want %d)", e.Op, e.Method, e.URL, e.StatusCode, e.WantStatus)
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	switch {
	case e.Message != "":
		fmt.Fprintf(&b, ": %s", e.Message)
	case len(e.Body) > 0:
		fmt.Fprintf(&b, ": %s", strings.TrimSpace(string(e.Body)))
	}
	return b.String()
}

// Unwrap returns the transport error, if any.
func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsRemoteCallError reports whether err is or wraps a RemoteCallError.
func IsRemoteCallError(err error) bool {
	var rce *RemoteCallError
	return errors.As(err, &rce)
}

// StatusCode returns the HTTP status of a RemoteCallError in err's chain,
// or 0 if there is none.
func StatusCode(err error) int {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce.StatusCode
	}
	return 0
}

// errorDetail pulls a code and human-readable message out of a Globus
// error body. Transfer uses {code, message}; Timers uses {detail} where
// detail is either a string or a list of validation errors; Auth uses
// {error, error_description}.
func errorDetail(body []byte) (code, message string) {
	if !gjson.ValidBytes(body) {
		return "", ""
	}
	doc := gjson.ParseBytes(body)

	code = doc.Get("code").String()
	if code == "" {
		code = doc.Get("error").String()
	}

	for _, path := range []string{"message", "error_description", "detail.0.msg"} {
		if v := doc.Get(path); v.Exists() && v.String() != "" {
			return code, v.String()
		}
	}
	if d := doc.Get("detail"); d.Type == gjson.String {
		return code, d.String()
	}
	return code, ""
}
