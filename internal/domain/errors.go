package domain

import "errors"

var (
	// ErrSecretNotFound is returned by secret stores when the slot is empty.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrStorageUnavailable wraps secret-store failures other than absence.
	ErrStorageUnavailable = errors.New("token storage unavailable")

	// ErrMalformedState marks a persisted token slot that failed to parse.
	// Callers treat it as absence so corrupt state never blocks login.
	ErrMalformedState = errors.New("malformed persisted token state")

	// ErrAuthExchange marks a failed authorization-code exchange.
	ErrAuthExchange = errors.New("token exchange failed")

	// ErrBackendCall wraps any non-2xx or transport failure from the
	// interview backend.
	ErrBackendCall = errors.New("backend call failed")

	// ErrMissingSessionID means a review was requested without a session id.
	ErrMissingSessionID = errors.New("missing session identifier")

	// ErrMissingEndpoint means a required backend endpoint is not configured.
	ErrMissingEndpoint = errors.New("missing endpoint configuration")

	// ErrNotConfigured means Start was called before category and difficulty
	// were both chosen.
	ErrNotConfigured = errors.New("interview not configured")

	// ErrNotActive means Send was called outside the Active phase.
	ErrNotActive = errors.New("interview not active")

	// ErrAlreadyStarted means Configure was called after Start.
	ErrAlreadyStarted = errors.New("interview already started")

	// ErrNotEnded means feedback or finish was requested before the session
	// ended.
	ErrNotEnded = errors.New("interview not ended")

	// ErrReplyPending means a turn was submitted while the previous one was
	// still in flight.
	ErrReplyPending = errors.New("reply still pending")

	// ErrTranscriptNotFound is returned by transcript archives for unknown
	// session ids.
	ErrTranscriptNotFound = errors.New("transcript not found")
)
