package services

// ValidationError reports a request that violates a domain rule. No side
// effects have occurred when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a missing record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// UnauthorizedError reports a failed credential check.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// ConflictError reports a uniqueness violation (e.g. duplicate admin email).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
