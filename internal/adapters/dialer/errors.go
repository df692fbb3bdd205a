package dialer

import "errors"

// Sentinel kinds for vendor API errors. The vendor source is required,
// so callers treat any of these as fatal for the whole query.
var (
	ErrRequestFailed = errors.New("vendor request failed")
	ErrBadStatus     = errors.New("vendor returned non-200 status")
	ErrDecode        = errors.New("vendor payload decode failed")
)
