package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToLockCharacter     = "failed to lock character row"
	ErrMsgFailedToRollback          = "Failed to rollback transaction"
)
