package reservation

import (
	"errors"
	"strings"
)

// ErrSubmitInFlight rejects a submit while another attempt has not resolved
// or has not been acknowledged yet.
var ErrSubmitInFlight = errors.New("a reservation submit is already in flight")

// ValidationError reports locally rejected customer input. The gateway is
// never contacted for an invalid request.
type ValidationError struct {
	MissingFields []string
	InvalidPhone  bool
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		return "missing required fields: " + strings.Join(e.MissingFields, ", ")
	}

	if e.InvalidPhone {
		return "phone number must have at least 8 characters"
	}

	return "invalid reservation request"
}
