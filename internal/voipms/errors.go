package voipms

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http_status"
	KindDecode     ErrorKind = "decode"
	KindAPI        ErrorKind = "api"
)

// RemoteError is any failure talking to the provider. Payload holds the raw
// response body when one was received.
type RemoteError struct {
	Method     string
	Kind       ErrorKind
	StatusCode int
	Payload    string
	Err        error
}

func (e *RemoteError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("voip.ms request failed for %s: %v", e.Method, e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("voip.ms http error for %s: status=%d body=%s", e.Method, e.StatusCode, e.Payload)
	case KindDecode:
		return fmt.Sprintf("voip.ms response for %s is not a json object: %v body=%s", e.Method, e.Err, e.Payload)
	default:
		return fmt.Sprintf("voip.ms api error for %s: %s", e.Method, e.Payload)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ShapeError means none of the known collection keys were in the response.
type ShapeError struct {
	Method    string
	Expected  []string
	Available []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("voip.ms %s response has none of [%s]; keys present: [%s]",
		e.Method, strings.Join(e.Expected, ", "), strings.Join(e.Available, ", "))
}
