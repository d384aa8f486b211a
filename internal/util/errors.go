package util

import "errors"

// Sentinel errors for common failure modes across the scan and query paths.
var (
	// ErrUnsupportedPath indicates the collection path is missing or not a directory.
	ErrUnsupportedPath = errors.New("unsupported collection path")

	// ErrNoTags indicates a file could not be recognized or decoded as audio.
	ErrNoTags = errors.New("no recognizable audio tags")

	// ErrCommitFailed indicates the batched scan commit was rolled back.
	ErrCommitFailed = errors.New("scan commit failed")

	// ErrQueryPrepare indicates a query failed during the synchronous prepare step.
	ErrQueryPrepare = errors.New("query preparation failed")
)
