package meetings

import "errors"

// Sentinel errors for meeting-source failures.
var (
	// ErrFetchFailed indicates the feed request could not complete.
	ErrFetchFailed = errors.New("meeting feed request failed")
	// ErrBadStatus indicates the feed answered with a non-200 status.
	ErrBadStatus = errors.New("meeting feed returned bad status")
	// ErrDecode indicates the source payload could not be decoded.
	ErrDecode = errors.New("failed to decode meeting data")
	// ErrWorkbook indicates the workbook file could not be read.
	ErrWorkbook = errors.New("failed to read meeting workbook")
)
