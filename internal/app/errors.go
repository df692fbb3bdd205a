package service

import "errors"

// Sentinel errors returned by the service layer.
var (
	// ErrInvalidRange indicates a request carried an unusable date range.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrEmptyQuery indicates an ask request without a question.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrVendorUnavailable indicates the dialer API could not serve the
	// request; there is no dashboard without it.
	ErrVendorUnavailable = errors.New("vendor metrics unavailable")
)
