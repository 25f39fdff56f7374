package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/session"
	"github.com/rs/zerolog"
)

type remoteStore interface {
	Query(ctx context.Context, action string, params any) (json.RawMessage, error)
}

// Workflow runs availability searches: one hard-required query for vehicles
// free over the whole range, one best-effort query for vehicles becoming
// free before the requested end.
type Workflow struct {
	store  remoteStore
	logger *zerolog.Logger
}

func New(store remoteStore, logger *zerolog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		logger: logger,
	}
}

type availabilityParams struct {
	Start string `url:"start"`
	End   string `url:"end"`
	Types string `url:"types,omitempty"`
}

type soonAvailableParams struct {
	End string `url:"end"`
}

// Search resolves the partition for one range and filter. The availability
// query failing aborts the search, the soon-available query failing is
// swallowed - results already fetched must still be shown, so the secondary
// partition degrades to empty instead of poisoning the whole response.
func (w *Workflow) Search(ctx context.Context, rng session.DateRange, filter session.TypeFilter) (schema.SearchResult, error) {
	result := schema.SearchResult{
		Available:     []schema.Vehicle{},
		SoonAvailable: []schema.Vehicle{},
	}

	if !rng.Valid() {
		return result, session.NewValidationError("return date must be after the pickup date")
	}

	available, err := w.fetchAvailable(ctx, rng, filter)
	if err != nil {
		return result, &SearchError{cause: err}
	}
	result.Available = available

	soon, err := w.fetchSoonAvailable(ctx, rng)
	if err != nil {
		w.logger.Warn().
			Str("label", "search").
			Str("error", err.Error()).
			Msg("Soon-available query failed, partition left empty")
	} else {
		result.SoonAvailable = soon
	}

	return result, nil
}

func (w *Workflow) fetchAvailable(ctx context.Context, rng session.DateRange, filter session.TypeFilter) ([]schema.Vehicle, error) {
	params := availabilityParams{
		Start: rng.Start.Format(time.DateOnly),
		End:   rng.End.Format(time.DateOnly),
		Types: strings.Join(filter.Labels(), ","),
	}

	data, err := w.store.Query(ctx, "getAvailableVehicles", params)
	if err != nil {
		return nil, err
	}

	var vehicles []schema.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (w *Workflow) fetchSoonAvailable(ctx context.Context, rng session.DateRange) ([]schema.Vehicle, error) {
	params := soonAvailableParams{
		End: rng.End.Format(time.DateOnly),
	}

	data, err := w.store.Query(ctx, "getSoonAvailable", params)
	if err != nil {
		return nil, err
	}

	var vehicles []schema.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}

	return vehicles, nil
}
