package session

import (
	"time"

	"bitbucket.org/crgw/booking-widget/internal/schema"
)

// State is the mutable state of one widget session: the filter, the
// requested range, the vehicle open in the detail view and the latest
// accepted search result. There is exactly one writer per session, the
// active user interaction, so transitions are plain value updates.
type State struct {
	Filter          TypeFilter
	Range           DateRange
	SelectedVehicle *schema.Vehicle

	// LastResult stays nil until a search completed, which distinguishes
	// "no results" from "search not yet run".
	LastResult *schema.SearchResult
}

func Default(today time.Time) State {
	return State{
		Filter: NewTypeFilter(),
		Range:  DefaultRange(today),
	}
}

func (s State) ToggleType(t schema.VehicleType) State {
	s.Filter = s.Filter.Toggle(t)
	return s
}

func (s State) SelectVehicle(v schema.Vehicle) State {
	s.SelectedVehicle = &v
	return s
}

func (s State) ClearSelection() State {
	s.SelectedVehicle = nil
	return s
}

func (s State) AcceptResult(result schema.SearchResult) State {
	s.LastResult = &result
	return s
}

// Reset returns the session to its defaults, the widget's "clear search".
func (s State) Reset(today time.Time) State {
	return Default(today)
}
