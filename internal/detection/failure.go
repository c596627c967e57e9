package detection

import (
	"errors"
	"fmt"
)

// ErrNoCoordinate is returned when every strategy failed to produce a result.
var ErrNoCoordinate = errors.New("no coordinate found")

// Reason classifies why a strategy could not produce a coordinate.
type Reason string

const (
	ReasonNoTextElements    Reason = "no_text_elements"
	ReasonNoMatch           Reason = "no_match"
	ReasonNoFocusedWindow   Reason = "no_focused_window"
	ReasonCaptureFailed     Reason = "capture_failed"
	ReasonServiceError      Reason = "service_error"
	ReasonMalformedResponse Reason = "malformed_response"
	ReasonOutOfBounds       Reason = "out_of_bounds"
)

// Failure is the negative outcome of a single strategy. It is an ordinary
// value that drives the fallback chain, not an exceptional condition.
type Failure struct {
	Method Method
	Reason Reason
	Err    error
}

// Fail builds a Failure for method with an optional underlying error.
func Fail(method Method, reason Reason, err error) *Failure {
	return &Failure{Method: method, Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Method, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Method, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// ReasonOf extracts the failure reason from err, if it carries one.
func ReasonOf(err error) (Reason, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason, true
	}
	return "", false
}
