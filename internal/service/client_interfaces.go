package service

import (
	"context"

	"github.com/MKhiriev/go-list-feed/models"
)

// SessionProvider exposes the current authenticated session.
type SessionProvider interface {
	// Session returns the session and true when the user is signed in
	// with a token that has not expired.
	Session() (models.Session, bool)
}

// AuthPrompter asks the user interface to show the sign-in prompt. It is
// called when an action that requires a session is attempted without one.
type AuthPrompter interface {
	RequestAuth()
}

// ClientAuthService defines the client-side contract for registration,
// authentication and the persisted session.
type ClientAuthService interface {
	SessionProvider
	AuthPrompter

	// Register creates the account on the server and signs the user in.
	// The session is persisted locally.
	Register(ctx context.Context, user models.User) (models.Session, error)

	// Login authenticates against the server and persists the session.
	Login(ctx context.Context, user models.User) (models.Session, error)

	// Logout forgets the session locally.
	Logout(ctx context.Context) error

	// Restore loads a persisted session. It reports false when no valid
	// session is stored; an expired session is cleared.
	Restore(ctx context.Context) (models.Session, bool, error)

	// OnAuthStateChange registers fn to be called on every sign-in and
	// sign-out. The returned function removes the registration.
	OnAuthStateChange(fn func(session models.Session, signedIn bool)) (unsubscribe func())

	// AuthRequests delivers a value for every RequestAuth call that the
	// user interface has not consumed yet.
	AuthRequests() <-chan struct{}
}

// Resyncer merges a fresh server copy into a view without resetting it.
// The refresh worker calls it periodically.
type Resyncer interface {
	Resync(ctx context.Context) error
}
