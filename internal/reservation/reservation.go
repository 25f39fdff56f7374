package reservation

import (
	"context"
	"strings"
	"sync"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/tools/converting"
	"github.com/rs/zerolog"
)

const minPhoneLength = 8

type Status int

const (
	Idle Status = iota
	Validating
	Submitting
	Succeeded
	Failed
)

type mutator interface {
	Mutate(ctx context.Context, action string, payload any) schema.Outcome
}

// Workflow drives one reservation attempt at a time through
// Idle -> Validating -> Submitting -> Succeeded or Failed. Terminal states
// return to Idle once the caller acknowledges the outcome.
type Workflow struct {
	store  mutator
	logger *zerolog.Logger

	mu     sync.Mutex
	status Status
}

func New(store mutator, logger *zerolog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		logger: logger,
	}
}

// Result is the resolved outcome of one submit attempt.
type Result struct {
	Status        Status
	ReservationID string
	Reason        string
}

func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.status
}

// Acknowledge returns a terminal workflow to Idle. It is a no-op in any
// other state.
func (w *Workflow) Acknowledge() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status == Succeeded || w.status == Failed {
		w.status = Idle
	}
}

// Submit validates the request and performs exactly one reservation
// mutation. A second submit before this one resolves (or before its outcome
// is acknowledged) is rejected with ErrSubmitInFlight - the presentation
// adapter additionally disables the submit control, this guard is the
// engine-side backstop.
func (w *Workflow) Submit(ctx context.Context, request schema.ReservationRequest) (Result, error) {
	if !w.transition(Idle, Validating) {
		return Result{}, ErrSubmitInFlight
	}

	if err := Validate(request); err != nil {
		// recoverable without acknowledgement, the user just edits the form
		w.setStatus(Idle)
		return Result{}, err
	}

	w.setStatus(Submitting)

	outcome := w.store.Mutate(ctx, "saveReservation", request)

	if outcome.Success {
		id := converting.Unwrap(outcome.ID)
		w.setStatus(Succeeded)

		w.logger.Info().
			Str("label", "reservation").
			Str("reservationId", id).
			Str("vehicleCode", request.VehicleCode).
			Msg("Reservation saved")

		return Result{Status: Succeeded, ReservationID: id}, nil
	}

	reason := converting.Unwrap(outcome.Error)
	if reason == "" {
		reason = "unknown error"
	}

	w.setStatus(Failed)

	w.logger.Warn().
		Str("label", "reservation").
		Str("reason", reason).
		Str("vehicleCode", request.VehicleCode).
		Msg("Reservation rejected")

	return Result{Status: Failed, Reason: reason}, nil
}

// Validate applies the local rules: all required fields present and a phone
// of at least eight characters after trimming. No further phone parsing on
// purpose, local formats vary too much.
func Validate(request schema.ReservationRequest) error {
	var missing []string

	if strings.TrimSpace(request.CustomerName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(request.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(request.License) == "" {
		missing = append(missing, "license")
	}
	if strings.TrimSpace(request.PickupTime) == "" {
		missing = append(missing, "pickupTime")
	}

	if len(missing) > 0 {
		return &ValidationError{MissingFields: missing}
	}

	if len(strings.TrimSpace(request.Phone)) < minPhoneLength {
		return &ValidationError{InvalidPhone: true}
	}

	return nil
}

func (w *Workflow) transition(from, to Status) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != from {
		return false
	}

	w.status = to
	return true
}

func (w *Workflow) setStatus(status Status) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}
