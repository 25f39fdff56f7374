package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/gateway"
	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/search"
	"bitbucket.org/crgw/booking-widget/internal/session"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	actions   []string
	params    []any
	responses map[string]json.RawMessage
	failures  map[string]error
}

func (s *stubStore) Query(ctx context.Context, action string, params any) (json.RawMessage, error) {
	s.actions = append(s.actions, action)
	s.params = append(s.params, params)

	if err, ok := s.failures[action]; ok {
		return nil, err
	}

	return s.responses[action], nil
}

func date(value string) openapi_types.Date {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return openapi_types.Date{Time: parsed}
}

func validRange() session.DateRange {
	return session.DateRange{Start: date("2024-06-01"), End: date("2024-06-05")}
}

func TestSearch(t *testing.T) {
	out := &bytes.Buffer{}
	log := zerolog.New(out)

	t.Run("should partition available and soon-available vehicles", func(t *testing.T) {
		store := &stubStore{
			responses: map[string]json.RawMessage{
				"getAvailableVehicles": json.RawMessage(`[{"code":"V1","name":"Hilux","type":"Pickup","dailyRate":65}]`),
				"getSoonAvailable":     json.RawMessage(`[{"code":"V2","name":"CR-V","type":"SUV","dailyRate":55}]`),
			},
			failures: map[string]error{},
		}

		workflow := search.New(store, &log)
		result, err := workflow.Search(context.Background(), validRange(), session.NewTypeFilter())

		assert.Nil(t, err)
		assert.Len(t, result.Available, 1)
		assert.Equal(t, "V1", result.Available[0].Code)
		assert.Len(t, result.SoonAvailable, 1)
		assert.Equal(t, "V2", result.SoonAvailable[0].Code)
	})

	t.Run("should reject an invalid range before any request", func(t *testing.T) {
		store := &stubStore{failures: map[string]error{}}
		workflow := search.New(store, &log)

		invalid := session.DateRange{Start: date("2024-06-05"), End: date("2024-06-05")}
		_, err := workflow.Search(context.Background(), invalid, session.NewTypeFilter())

		_, ok := err.(*session.ValidationError)
		assert.True(t, ok)
		assert.Empty(t, store.actions)
	})

	t.Run("should swallow a soon-available failure", func(t *testing.T) {
		store := &stubStore{
			responses: map[string]json.RawMessage{
				"getAvailableVehicles": json.RawMessage(`[{"code":"V1","name":"Hilux","type":"Pickup","dailyRate":65}]`),
			},
			failures: map[string]error{
				"getSoonAvailable": gateway.NewTransportError("dial tcp: refused"),
			},
		}

		workflow := search.New(store, &log)
		result, err := workflow.Search(context.Background(), validRange(), session.NewTypeFilter())

		assert.Nil(t, err)
		assert.Len(t, result.Available, 1)
		assert.Equal(t, []schema.Vehicle{}, result.SoonAvailable)
	})

	t.Run("should abort on an availability failure without querying soon-available", func(t *testing.T) {
		store := &stubStore{
			failures: map[string]error{
				"getAvailableVehicles": gateway.NewServerError("sheet unavailable"),
			},
		}

		workflow := search.New(store, &log)
		_, err := workflow.Search(context.Background(), validRange(), session.NewTypeFilter())

		searchErr, ok := err.(*search.SearchError)
		assert.True(t, ok)
		assert.NotNil(t, searchErr.Unwrap())
		assert.Equal(t, []string{"getAvailableVehicles"}, store.actions)
	})

	t.Run("should query availability before soon-available", func(t *testing.T) {
		store := &stubStore{
			responses: map[string]json.RawMessage{
				"getAvailableVehicles": json.RawMessage(`[]`),
				"getSoonAvailable":     json.RawMessage(`[]`),
			},
			failures: map[string]error{},
		}

		workflow := search.New(store, &log)
		result, err := workflow.Search(context.Background(), validRange(), session.NewTypeFilter())

		assert.Nil(t, err)
		assert.Equal(t, []string{"getAvailableVehicles", "getSoonAvailable"}, store.actions)
		assert.True(t, result.Empty())
	})

	t.Run("should omit the types param for the ALL filter", func(t *testing.T) {
		store := &stubStore{
			responses: map[string]json.RawMessage{
				"getAvailableVehicles": json.RawMessage(`[]`),
				"getSoonAvailable":     json.RawMessage(`[]`),
			},
			failures: map[string]error{},
		}

		workflow := search.New(store, &log)
		_, err := workflow.Search(context.Background(), validRange(), session.NewTypeFilter())
		assert.Nil(t, err)

		encoded, _ := json.Marshal(store.params[0])
		assert.Contains(t, string(encoded), `"Types":""`)
	})

	t.Run("should join selected types with commas", func(t *testing.T) {
		store := &stubStore{
			responses: map[string]json.RawMessage{
				"getAvailableVehicles": json.RawMessage(`[]`),
				"getSoonAvailable":     json.RawMessage(`[]`),
			},
			failures: map[string]error{},
		}

		filter := session.NewTypeFilter().Toggle("SUV").Toggle("Pickup")
		workflow := search.New(store, &log)
		_, err := workflow.Search(context.Background(), validRange(), filter)
		assert.Nil(t, err)

		encoded, _ := json.Marshal(store.params[0])
		assert.Contains(t, string(encoded), "SUV,Pickup")
	})
}

func TestLatest(t *testing.T) {
	result := func(code string) schema.SearchResult {
		return schema.SearchResult{
			Available:     []schema.Vehicle{{Code: code}},
			SoonAvailable: []schema.Vehicle{},
		}
	}

	t.Run("should be empty before any search", func(t *testing.T) {
		latest := &search.Latest{}

		assert.Nil(t, latest.Result())
	})

	t.Run("should accept results in order", func(t *testing.T) {
		latest := &search.Latest{}

		first := latest.Begin()
		second := latest.Begin()

		assert.True(t, latest.Accept(first, result("V1")))
		assert.True(t, latest.Accept(second, result("V2")))
		assert.Equal(t, "V2", latest.Result().Available[0].Code)
	})

	t.Run("should discard a stale result arriving late", func(t *testing.T) {
		latest := &search.Latest{}

		stale := latest.Begin()
		newer := latest.Begin()

		assert.True(t, latest.Accept(newer, result("V2")))
		assert.False(t, latest.Accept(stale, result("V1")))
		assert.Equal(t, "V2", latest.Result().Available[0].Code)
	})
}
