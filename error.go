package libyomu

// Error is a general error for client operations.
type Error string

func (e Error) Error() string {
	return "libyomu: " + string(e)
}
