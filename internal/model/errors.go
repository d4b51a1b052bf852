package model

import "errors"

// Errors are wrapped with fmt.Errorf("...: %w", err) at the call site, use
// errors.Is to classify them.
var (
	// ErrAuth is returned when the leaders api cannot issue a token or keeps
	// rejecting a request after one token refresh.
	ErrAuth = errors.New("authentication failed")
	// ErrFetch is a network, timeout or unexpected status failure.
	ErrFetch = errors.New("fetch failed")
	// ErrMalformedResponse is a response body that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)
