package store

import "errors"

// Domain errors of the repositories. The HTTP layer maps them to status
// codes, the client maps the server messages back to them.
var (
	// ErrLoginAlreadyExists is returned on registration with a taken login.
	ErrLoginAlreadyExists = errors.New("login already exists")

	ErrNoUserWasFound = errors.New("no user was found")

	// ErrListNotFound is returned when a list id does not match any row.
	ErrListNotFound = errors.New("list was not found")

	// ErrCommentNotFound is returned when a comment id does not match any row.
	ErrCommentNotFound = errors.New("comment was not found")

	// ErrParentCommentNotFound is returned when a reply references a comment
	// that does not exist or belongs to a different list.
	ErrParentCommentNotFound = errors.New("parent comment was not found")

	// ErrNotificationNotFound is returned when a notification does not
	// exist or is addressed to a different user.
	ErrNotificationNotFound = errors.New("notification was not found")

	// ErrSessionNotFound is returned by the client session store when no
	// session has been saved.
	ErrSessionNotFound = errors.New("local session not found")
)

// SQL-level failures, wrapped together with the driver error.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a
	// table query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	// ErrRollingBackTransaction is joined to the cause when the rollback
	// after a failed transaction fails too.
	ErrRollingBackTransaction = errors.New("failed to roll back transaction")
)
