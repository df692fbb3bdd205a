package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrPartialRange = errors.New("startDate and endDate must be provided together")
	ErrBadDays      = errors.New("days must be a positive integer")
	ErrBadBody      = errors.New("request body must be a JSON object with a query field")
)
