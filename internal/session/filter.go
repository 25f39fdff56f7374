package session

import (
	"bitbucket.org/crgw/booking-widget/internal/schema"
)

// TypeFilter is the set of selected vehicle types. It is never empty: the
// ALL sentinel stands in whenever no specific type is selected, and is
// mutually exclusive with specific selections.
type TypeFilter struct {
	selected []schema.VehicleType
}

func NewTypeFilter() TypeFilter {
	return TypeFilter{selected: []schema.VehicleType{schema.AllTypes}}
}

// FilterOf builds a filter from explicit labels, normalizing to ALL when the
// list is empty or contains the sentinel.
func FilterOf(types []schema.VehicleType) TypeFilter {
	if len(types) == 0 {
		return NewTypeFilter()
	}

	for _, t := range types {
		if t == schema.AllTypes {
			return NewTypeFilter()
		}
	}

	return TypeFilter{selected: append([]schema.VehicleType{}, types...)}
}

// Toggle flips one type selection and returns the next filter. Selecting ALL
// clears the specifics, selecting a specific while ALL is active replaces
// it, and deselecting the last specific falls back to ALL.
func (f TypeFilter) Toggle(t schema.VehicleType) TypeFilter {
	if t == schema.AllTypes {
		return NewTypeFilter()
	}

	selected := f.selected
	if f.All() {
		selected = nil
	}

	next := make([]schema.VehicleType, 0, len(selected)+1)
	removed := false
	for _, existing := range selected {
		if existing == t {
			removed = true
			continue
		}
		next = append(next, existing)
	}

	if !removed {
		next = append(next, t)
	}

	if len(next) == 0 {
		return NewTypeFilter()
	}

	return TypeFilter{selected: next}
}

func (f TypeFilter) All() bool {
	return len(f.selected) == 1 && f.selected[0] == schema.AllTypes
}

func (f TypeFilter) Selected() []schema.VehicleType {
	return append([]schema.VehicleType{}, f.selected...)
}

// Labels returns the specific type labels for the availability query, nil
// when the filter is ALL so the param can be omitted entirely.
func (f TypeFilter) Labels() []string {
	if f.All() {
		return nil
	}

	labels := make([]string, 0, len(f.selected))
	for _, t := range f.selected {
		labels = append(labels, string(t))
	}

	return labels
}
