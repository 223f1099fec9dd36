package solrx

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/clinia/solrx/errorx"
)

// RemoteError is a failure reported by the cluster itself, such as creating a collection that
// already exists. It unwraps to an errorx.CliniaError of type Kind.
type RemoteError struct {
	Action ActionKind
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the error code reported by Solr, or responseHeader.status.
	Code    int
	Message string
	Kind    errorx.ErrorType
	Body    []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("solr %s failed with code %d: %s", e.Action, e.Code, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.CliniaError()
}

// CliniaError returns the error as a CliniaError of type Kind.
func (e *RemoteError) CliniaError() *errorx.CliniaError {
	return &errorx.CliniaError{Type: e.Kind, Message: e.Message}
}

// TransportError is a failure to exchange a request with the cluster at all.
type TransportError struct {
	Action ActionKind
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("solr %s request to %s failed: %v", e.Action, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body does not have the expected structure.
type DecodeError struct {
	Action ActionKind
	Reason string
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to decode solr %s response: %s: %v", e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("unable to decode solr %s response: %s", e.Action, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsAlreadyExistsError reports whether the cluster rejected a request because its target already exists.
func IsAlreadyExistsError(err error) bool {
	re, ok := IsRemoteError(err)
	return ok && re.Kind == errorx.ErrorTypeAlreadyExists
}

// IsNotFoundError reports whether the cluster rejected a request because its target does not exist.
func IsNotFoundError(err error) bool {
	re, ok := IsRemoteError(err)
	return ok && re.Kind == errorx.ErrorTypeNotFound
}
