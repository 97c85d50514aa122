package entity

import "errors"

// Error kinds callers branch on with errors.Is. Wrapped errors carry the
// topic/collection context and the underlying cause.
var (
	// ErrUnknownTopic marks a topic id absent from the catalog.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrExtraction marks a malformed or unsupported uploaded file.
	ErrExtraction = errors.New("text extraction failed")
	// ErrIndexCreation marks a failed collection creation in the vector
	// backend. Retryable: the index cache never records it.
	ErrIndexCreation = errors.New("index creation failed")
	// ErrRetrieval marks a failed similarity query.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration marks a failed or timed-out generation call.
	ErrGeneration = errors.New("answer generation failed")
	// ErrNoTopicsSucceeded is returned by cross-topic queries when every
	// requested topic was unknown or errored.
	ErrNoTopicsSucceeded = errors.New("no topics succeeded")
)
