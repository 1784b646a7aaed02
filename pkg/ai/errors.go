package ai

import "errors"

var (
	// ErrNoClient is returned when the endpoint for an operation is not configured.
	ErrNoClient = errors.New("ai client not configured")
	// ErrEmptyResponse is returned when a model answers without content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrMalformedReply is returned when a structured reply cannot be decoded
	// even after repair.
	ErrMalformedReply = errors.New("malformed structured reply")
)
