package session_test

import (
	"testing"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/session"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
)

func emptyResult() schema.SearchResult {
	return schema.SearchResult{
		Available:     []schema.Vehicle{},
		SoonAvailable: []schema.Vehicle{},
	}
}

func date(value string) openapi_types.Date {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return openapi_types.Date{Time: parsed}
}

func TestDateRange(t *testing.T) {
	t.Run("should default to today and tomorrow", func(t *testing.T) {
		today := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
		r := session.DefaultRange(today)

		assert.Equal(t, "2024-05-10", r.Start.Format(time.DateOnly))
		assert.Equal(t, "2024-05-11", r.End.Format(time.DateOnly))
		assert.True(t, r.Valid())
	})

	t.Run("should keep the end when a new start leaves room", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-05-10"), End: date("2024-05-15")}

		next := r.SetStart(date("2024-05-12"))

		assert.Equal(t, "2024-05-12", next.Start.Format(time.DateOnly))
		assert.Equal(t, "2024-05-15", next.End.Format(time.DateOnly))
	})

	t.Run("should auto-advance the end when the start collides", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-05-10"), End: date("2024-05-11")}

		next := r.SetStart(date("2024-05-20"))

		assert.Equal(t, "2024-05-20", next.Start.Format(time.DateOnly))
		assert.Equal(t, "2024-05-21", next.End.Format(time.DateOnly))
		assert.True(t, next.Valid())
	})

	t.Run("should reject an end on or before the start", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-05-10"), End: date("2024-05-15")}

		for _, end := range []string{"2024-05-10", "2024-05-09"} {
			next, err := r.SetEnd(date(end))

			validationErr, ok := err.(*session.ValidationError)
			assert.True(t, ok)
			assert.NotEmpty(t, validationErr.Message)
			// range unchanged
			assert.Equal(t, r, next)
		}
	})

	t.Run("should accept a later end", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-05-10"), End: date("2024-05-11")}

		next, err := r.SetEnd(date("2024-05-14"))

		assert.Nil(t, err)
		assert.Equal(t, "2024-05-14", next.End.Format(time.DateOnly))
	})

	t.Run("should report the minimum selectable end", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-05-10"), End: date("2024-05-15")}

		assert.Equal(t, "2024-05-11", r.MinEnd().Format(time.DateOnly))
	})

	t.Run("should count whole days", func(t *testing.T) {
		r := session.DateRange{Start: date("2024-01-01"), End: date("2024-01-03")}

		assert.Equal(t, 2, r.Days())
	})

	t.Run("should round partial days up", func(t *testing.T) {
		start := date("2024-01-01")
		// one millisecond short of a full day
		end := openapi_types.Date{Time: start.Add(24*time.Hour - time.Millisecond)}
		r := session.DateRange{Start: start, End: end}

		assert.Equal(t, 1, r.Days())
	})
}

func TestState(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("should start with ALL filter, default range and no result", func(t *testing.T) {
		state := session.Default(today)

		assert.True(t, state.Filter.All())
		assert.True(t, state.Range.Valid())
		assert.Nil(t, state.SelectedVehicle)
		assert.Nil(t, state.LastResult)
	})

	t.Run("should distinguish empty results from no search", func(t *testing.T) {
		state := session.Default(today)
		assert.Nil(t, state.LastResult)

		state = state.AcceptResult(emptyResult())

		assert.NotNil(t, state.LastResult)
		assert.True(t, state.LastResult.Empty())
	})

	t.Run("should reset to defaults", func(t *testing.T) {
		state := session.Default(today).ToggleType("SUV")
		state = state.AcceptResult(emptyResult())

		state = state.Reset(today)

		assert.True(t, state.Filter.All())
		assert.Nil(t, state.LastResult)
	})
}
