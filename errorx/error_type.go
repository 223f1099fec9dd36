package errorx

import "fmt"

// ErrorType classifies a CliniaError. Values follow the gRPC status codes:
// https://grpc.github.io/grpc/core/md_doc_statuscodes.html
type ErrorType string

const (
	// ErrorTypeUnspecified is the zero value, a CliniaError of this type is not considered one.
	ErrorTypeUnspecified        = ErrorType("")
	ErrorTypeAlreadyExists      = ErrorType("ALREADY_EXISTS")
	ErrorTypeFailedPrecondition = ErrorType("FAILED_PRECONDITION")
	ErrorTypeInternal           = ErrorType("INTERNAL")
	ErrorTypeInvalidArgument    = ErrorType("INVALID_ARGUMENT")
	ErrorTypeNotFound           = ErrorType("NOT_FOUND")
	ErrorTypeUnavailable        = ErrorType("UNAVAILABLE")
)

func ParseErrorType(s string) (ErrorType, error) {
	e := ErrorType(s)
	if err := e.Validate(); err != nil {
		return ErrorTypeUnspecified, err
	}
	return e, nil
}

func (e ErrorType) String() string {
	return string(e)
}

func (e ErrorType) Validate() error {
	switch e {
	case ErrorTypeAlreadyExists,
		ErrorTypeFailedPrecondition,
		ErrorTypeInternal,
		ErrorTypeInvalidArgument,
		ErrorTypeNotFound,
		ErrorTypeUnavailable:
		return nil
	default:
		return InvalidArgumentErrorf("invalid error type: %s", e)
	}
}

// Errorf creates a CliniaError of type t. Prefer the typed constructors below.
func Errorf(t ErrorType, format string, args ...any) *CliniaError {
	return newWithStack(t, fmt.Sprintf(format, args...))
}

// AlreadyExistsErrorf reports a create of something that is already there.
func AlreadyExistsErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeAlreadyExists, fmt.Sprintf(format, args...))
}

// FailedPreconditionErrorf reports a request the current state does not allow, e.g. deleting an aliased collection.
func FailedPreconditionErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeFailedPrecondition, fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeInternal, fmt.Sprintf(format, args...))
}

// InvalidArgumentErrorf reports a request rejected before anything was sent.
func InvalidArgumentErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeInvalidArgument, fmt.Sprintf(format, args...))
}

func NotFoundErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeNotFound, fmt.Sprintf(format, args...))
}

// UnavailableErrorf reports a cluster that can't serve the request right now.
func UnavailableErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeUnavailable, fmt.Sprintf(format, args...))
}

func IsAlreadyExistsError(err error) bool      { return isType(err, ErrorTypeAlreadyExists) }
func IsFailedPreconditionError(err error) bool { return isType(err, ErrorTypeFailedPrecondition) }
func IsInternalError(err error) bool           { return isType(err, ErrorTypeInternal) }
func IsInvalidArgumentError(err error) bool    { return isType(err, ErrorTypeInvalidArgument) }
func IsNotFoundError(err error) bool           { return isType(err, ErrorTypeNotFound) }
func IsUnavailableError(err error) bool        { return isType(err, ErrorTypeUnavailable) }
