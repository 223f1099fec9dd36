package errorx

import "fmt"

// RetryableError marks a failure that may succeed when attempted again.
type RetryableError struct {
	error
}

var _ error = (*RetryableError)(nil)

func NewRetryableError(err error) RetryableError {
	return RetryableError{
		error: err,
	}
}

func (re RetryableError) Unwrap() error {
	return re.error
}

func (re RetryableError) Error() string {
	return fmt.Sprintf("retryable: %s", re.error.Error())
}

// IsRetryableError only looks at err itself, not at the errors it wraps.
func IsRetryableError(err error) (*RetryableError, bool) {
	switch re := err.(type) {
	case RetryableError:
		return &re, true
	case *RetryableError:
		return re, re != nil
	default:
		return nil, false
	}
}
