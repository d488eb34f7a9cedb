package service

import "errors"

// Domain errors surfaced by the import workflow. Handlers map these onto
// HTTP statuses; nothing here retries.
var (
	// ErrNotFound covers unknown sessions, items and catalog references.
	ErrNotFound = errors.New("resource not found")

	// ErrSessionNotEditable is returned for any mutation attempted on a
	// session that is no longer PENDING_REVIEW. A client receiving it must
	// treat its copy of the session as stale.
	ErrSessionNotEditable = errors.New("import session already confirmed or cancelled")

	// ErrIncompleteClassification rejects confirm while any item lacks a
	// counterparty or category. Recoverable: the user keeps editing.
	ErrIncompleteClassification = errors.New("items missing supplier or category")

	// ErrFileTooLarge rejects uploads over the configured size limit before
	// any parsing happens.
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")

	// ErrInvalidEntryType rejects classification patches whose account type
	// is neither PAYABLE nor RECEIVABLE.
	ErrInvalidEntryType = errors.New("account type must be PAYABLE or RECEIVABLE")

	// ErrInvalidCredentials is the single answer for unknown email or wrong
	// password on login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken rejects registration with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
)
