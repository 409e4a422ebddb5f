package library

// Error is a general error for library store operations.
type Error string

func (e Error) Error() string {
	return "library: " + string(e)
}

const (
	// ErrNotFound means no entry exists under the given id.
	ErrNotFound = Error("entry not found")

	// ErrDefaultCategory means the operation would delete or
	// orphan the built-in default category.
	ErrDefaultCategory = Error("the default category cannot be deleted")

	// ErrCategoryNotFound means no category exists under the given id.
	ErrCategoryNotFound = Error("category not found")
)
