package outputs

import "errors"

// Sentinel error kinds shared by all output variants.
var (
	// ErrRequestFailure is the generic transport failure kind. Retry-eligible.
	ErrRequestFailure = errors.New("output request failure")
	// ErrRequestTimeout marks a send that exceeded its deadline. Retry-eligible.
	ErrRequestTimeout = errors.New("output request timeout")

	// ErrInvalidDescriptor rejects a descriptor containing restricted
	// characters or an empty value. Configuration error, not retry-eligible.
	ErrInvalidDescriptor = errors.New("invalid output descriptor")
	// ErrDuplicateDescriptor rejects a descriptor already configured for the
	// same service. Configuration error, not retry-eligible.
	ErrDuplicateDescriptor = errors.New("duplicate output descriptor")
)

// baseRetryableErrors is the retry-eligible set every variant starts from.
func baseRetryableErrors() []error {
	return []error{ErrRequestFailure, ErrRequestTimeout}
}

// IsRetryable reports whether err matches any of the given retry-eligible
// kinds. Callers use this to decide between retrying with backoff and
// surfacing the failure.
func IsRetryable(err error, kinds []error) bool {
	if err == nil {
		return false
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
