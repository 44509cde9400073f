package domain

import "errors"

// Domain errors represent dispatch failures. Adapters wrap these
// sentinels so callers can classify failures with errors.Is; the
// dispatcher is the only place that turns them into user-facing text.
var (
	// ErrConfigInvalid indicates missing or malformed provider
	// configuration. Surfaced before any network attempt.
	ErrConfigInvalid = errors.New("provider configuration invalid")

	// ErrAuthRequired indicates the provider needs a credential and
	// none is configured or cached. No network call is made.
	ErrAuthRequired = errors.New("API key required")

	// ErrAuthInvalid indicates the provider rejected the credential.
	ErrAuthInvalid = errors.New("authentication rejected")

	// ErrProviderUnreachable indicates a connection or timeout failure.
	ErrProviderUnreachable = errors.New("provider unreachable")

	// ErrBadResponse indicates the provider returned an unexpected
	// payload shape.
	ErrBadResponse = errors.New("unexpected provider response")

	// ErrUpstream indicates a non-2xx provider response with
	// retry-worthy semantics (rate limit or server error).
	ErrUpstream = errors.New("provider error")
)
