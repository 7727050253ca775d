package records

// ValidationError carries the validator's verdict to the HTTP layer unchanged.
// It is always recoverable and maps to a client error.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}
