package mvcc

import "errors"

var (
	// ErrAlreadyExists is returned by Insert when a non-tombstoned head
	// already exists for the given id.
	ErrAlreadyExists = errors.New("mvcc: record already exists")

	// ErrNotFound is returned by Update and Delete when no head exists
	// for the given id.
	ErrNotFound = errors.New("mvcc: record not found")

	// ErrWriteConflict is returned by Update when the issuing transaction's
	// snapshot no longer matches the current head (first-committer-wins).
	ErrWriteConflict = errors.New("mvcc: write conflict")

	// ErrNotActive is returned by any write operation against a
	// transaction that is not ACTIVE.
	ErrNotActive = errors.New("mvcc: transaction is not active")

	// ErrUnknownTxn is returned when a transaction id is not registered.
	ErrUnknownTxn = errors.New("mvcc: unknown transaction")
)
