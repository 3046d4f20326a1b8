package documents

import "errors"

// ErrTooLarge is returned for uploads above the configured size cap.
var ErrTooLarge = errors.New("file too large")
