package errorx

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type CliniaError struct {
	Type    ErrorType     `json:"type"`
	Message string        `json:"message"`
	Details []CliniaError `json:"details,omitempty"`

	OriginalError error `json:"-"` // Not returned to clients

	stack Callers
}

var _ error = (*CliniaError)(nil)

func newWithStack(t ErrorType, msg string) *CliniaError {
	return &CliniaError{
		Type:    t,
		Message: msg,
		stack:   callers(2),
	}
}

func (e CliniaError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

// Unwrap exposes the original error so errors.Is / errors.As can walk through it.
func (e CliniaError) Unwrap() error {
	return e.OriginalError
}

// StackTrace returns the call stack captured when the error was created.
func (e CliniaError) StackTrace() Callers {
	return e.stack
}

// WithDetails appends the given errors to the details of the error.
func (e *CliniaError) WithDetails(details ...*CliniaError) *CliniaError {
	for _, d := range details {
		if d == nil {
			continue
		}
		dd := *d
		dd.stack = nil
		e.Details = append(e.Details, dd)
	}

	return e
}

// WithOriginalError keeps err as the cause of the CliniaError.
func (e *CliniaError) WithOriginalError(err error) *CliniaError {
	e.OriginalError = err
	return e
}

// DetailMessages returns the messages of the direct details, in order.
func (e CliniaError) DetailMessages() []string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func NewCliniaErrorFromMessage(msg string) (*CliniaError, error) {
	if !strings.HasPrefix(msg, "[") {
		return nil, fmt.Errorf("%q is not a valid error type", msg)
	}

	end := strings.Index(msg, "] ")
	if end < 0 {
		return nil, fmt.Errorf("%q is not a valid error type", msg)
	}

	eT, err := ParseErrorType(msg[1:end])
	if err != nil {
		return nil, err
	}

	return &CliniaError{
		Type:    eT,
		Message: msg[end+2:],
	}, nil
}

// IsCliniaError finds the first CliniaError in the chain of e.
func IsCliniaError(e error) (*CliniaError, bool) {
	if e == nil {
		return nil, false
	}

	var mE *CliniaError
	if !errors.As(e, &mE) {
		var vE CliniaError
		if !errors.As(e, &vE) {
			return nil, false
		}
		mE = &vE
	}

	if mE.Type == ErrorTypeUnspecified {
		return nil, false
	}

	return mE, true
}

func isType(e error, t ErrorType) bool {
	mE, ok := IsCliniaError(e)
	if !ok {
		return false
	}

	return mE.Type == t
}
