package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	"github.com/rs/zerolog"
)

var ErrAlreadyLoaded = errors.New("catalog already loaded")

type remoteStore interface {
	Query(ctx context.Context, action string, params any) (json.RawMessage, error)
}

// Cache holds the company profile, the vehicle type list and the featured
// vehicles for the whole session. It is filled by exactly one Load at
// startup and read-only afterwards, there is no refresh.
type Cache struct {
	store  remoteStore
	logger *zerolog.Logger

	loaded   bool
	company  schema.CompanyProfile
	types    []schema.VehicleType
	featured []schema.Vehicle
}

func New(store remoteStore, logger *zerolog.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger,
	}
}

// Load fetches the company profile first, then the type list and the
// featured list concurrently. Any failure fails the whole startup, the
// widget cannot render a partial UI.
func (c *Cache) Load(ctx context.Context) error {
	if c.loaded {
		return ErrAlreadyLoaded
	}

	company, err := c.fetchCompany(ctx)
	if err != nil {
		return err
	}

	typesCh := make(chan fetchedTypes, 1)
	go func() {
		types, err := c.fetchVehicleTypes(ctx)
		typesCh <- fetchedTypes{types: types, err: err}
	}()

	featured, featuredErr := c.fetchFeatured(ctx)
	types := <-typesCh

	if featuredErr != nil {
		return featuredErr
	}
	if types.err != nil {
		return types.err
	}

	c.company = company
	c.types = types.types
	c.featured = featured
	c.loaded = true

	c.logger.Info().
		Str("label", "catalog").
		Int("vehicleTypes", len(c.types)).
		Int("featured", len(c.featured)).
		Msg("Catalog loaded")

	return nil
}

func (c *Cache) Company() schema.CompanyProfile {
	return c.company
}

func (c *Cache) VehicleTypes() []schema.VehicleType {
	return c.types
}

func (c *Cache) Featured() []schema.Vehicle {
	return c.featured
}

type fetchedTypes struct {
	types []schema.VehicleType
	err   error
}

func (c *Cache) fetchCompany(ctx context.Context) (schema.CompanyProfile, error) {
	data, err := c.store.Query(ctx, "getCompanyProfile", nil)
	if err != nil {
		return schema.CompanyProfile{}, err
	}

	var company schema.CompanyProfile
	if err := json.Unmarshal(data, &company); err != nil {
		return schema.CompanyProfile{}, err
	}

	return company, nil
}

func (c *Cache) fetchVehicleTypes(ctx context.Context) ([]schema.VehicleType, error) {
	data, err := c.store.Query(ctx, "getVehicleTypes", nil)
	if err != nil {
		return nil, err
	}

	var types []schema.VehicleType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}

	return types, nil
}

func (c *Cache) fetchFeatured(ctx context.Context) ([]schema.Vehicle, error) {
	data, err := c.store.Query(ctx, "getFeaturedVehicles", nil)
	if err != nil {
		return nil, err
	}

	var featured []schema.Vehicle
	if err := json.Unmarshal(data, &featured); err != nil {
		return nil, err
	}

	return featured, nil
}
