package service

import "errors"

// server
var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrWrongPassword           = errors.New("wrong password")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	// ErrForbidden is returned when the caller does not own the row it
	// tries to remove.
	ErrForbidden = errors.New("access denied")

	ErrEmptyComment = errors.New("comment body is empty")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// client
var (
	// ErrAuthRequired is returned by a user action that needs a session
	// when nobody is signed in. The auth prompt has been requested.
	ErrAuthRequired = errors.New("authentication required")

	// ErrMutationFailed wraps the cause of a failed optimistic mutation.
	// The optimistic change has already been compensated.
	ErrMutationFailed = errors.New("mutation failed")

	// ErrStaleResponse marks a page fetched for a filter or refresh that has
	// since been superseded. It is never returned to callers.
	ErrStaleResponse = errors.New("stale response")

	ErrRegisterOnServer = errors.New("registration on server failed")
	ErrLoginOnServer    = errors.New("login on server failed")
)
