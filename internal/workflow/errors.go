package workflow

import "errors"

// Caller-visible failure modes of the workflow engines. Handlers match
// these with errors.Is and translate them into 4xx envelopes.
var (
	// ErrRecordNotFound means the record id resolved to nothing.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoOpTransition means the requested status equals the current one.
	ErrNoOpTransition = errors.New("record is already in the requested status")
	// ErrInvalidStatus means the status is not in the record kind's set.
	ErrInvalidStatus = errors.New("invalid status for this record type")
	// ErrUserNotFound means the assignee id resolved to no active user.
	ErrUserNotFound = errors.New("assignee not found")
	// ErrOutOfScopeAssignee means the candidate is outside the record's
	// company or department scope, or holds a role that cannot work records.
	ErrOutOfScopeAssignee = errors.New("assignee is outside the record's scope")
	// ErrForbidden means the actor's role or scope does not permit the
	// operation.
	ErrForbidden = errors.New("operation not permitted for this actor")
)
