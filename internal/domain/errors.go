package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip does not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a start location with no coordinates).
// Handlers map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when a valid identity operates on a trip it does
// not own. Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState is returned when a trip's lifecycle status forbids the
// requested operation (e.g. editing an ACTIVE trip). Handlers map this to
// HTTP 400.
var ErrInvalidState = errors.New("invalid trip state")

// ErrUpstreamUnavailable is returned when the safety-scoring service cannot
// be reached, times out, or answers with a non-success status. The request
// is never retried here. Handlers map this to HTTP 502.
var ErrUpstreamUnavailable = errors.New("safety service unavailable")

// ErrMalformedUpstream is returned when the safety-scoring service answers
// successfully but with a shape that cannot be correlated back onto the
// request (e.g. a waypoint count mismatch). Handlers map this to HTTP 502.
var ErrMalformedUpstream = errors.New("malformed safety service response")
