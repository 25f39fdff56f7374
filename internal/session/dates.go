package session

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// DateRange is the requested rental period. The invariant end > start holds
// for every range produced by this package, the minimum stay is one day.
type DateRange struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

func DefaultRange(today time.Time) DateRange {
	day := dateOf(today)
	return DateRange{
		Start: day,
		End:   dateOf(today.AddDate(0, 0, 1)),
	}
}

func (r DateRange) Valid() bool {
	return r.End.After(r.Start.Time)
}

// SetStart moves the start of the range. When the new start collides with
// the current end, the end silently advances to start plus one day - early
// starts are not user mistakes and should not produce rejections.
func (r DateRange) SetStart(start openapi_types.Date) DateRange {
	next := DateRange{Start: start, End: r.End}
	if !next.Valid() {
		next.End = openapi_types.Date{Time: start.AddDate(0, 0, 1)}
	}

	return next
}

// SetEnd moves the end of the range. An end on or before the start is
// explicit intent to pick a wrong date, it is rejected with an explainable
// error and the range stays unchanged.
func (r DateRange) SetEnd(end openapi_types.Date) (DateRange, error) {
	next := DateRange{Start: r.Start, End: end}
	if !next.Valid() {
		return r, NewValidationError("return date must be after the pickup date")
	}

	return next, nil
}

// MinEnd is the earliest selectable end for the current start.
func (r DateRange) MinEnd() openapi_types.Date {
	return openapi_types.Date{Time: r.Start.AddDate(0, 0, 1)}
}

// Days counts whole rental days, rounding partial days up. Stored dates can
// carry time-of-day or timezone skew, the ceiling keeps a one-day rental at
// one day instead of zero.
func (r DateRange) Days() int {
	diff := r.End.Sub(r.Start.Time)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}

	return days
}

func dateOf(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}
