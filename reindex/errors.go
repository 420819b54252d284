package reindex

import "errors"

// ErrInvalidMaxAttempts indicates a retry policy with no attempts.
var ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
