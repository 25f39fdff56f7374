package search

// SearchError marks a failed primary availability query. The soon-available
// query never produces one, its failures are swallowed.
type SearchError struct {
	cause error
}

func NewSearchError(cause error) *SearchError {
	return &SearchError{cause: cause}
}

func (e *SearchError) Error() string {
	return "availability search failed: " + e.cause.Error()
}

func (e *SearchError) Unwrap() error {
	return e.cause
}
