package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Package catalog holds per-service lifecycle policy. The engine reads the
// minimum-advance threshold and the partial-completion flag from here
// instead of hard-coding them.

// ErrUnknownService is returned for service codes absent from the catalog.
var ErrUnknownService = errors.New("unknown service code")

// ServiceConfig is the lifecycle policy of one service type.
type ServiceConfig struct {
	Code string `json:"code"`

	// MinAdvanceBps is the advance threshold in basis points of the
	// estimated cost (2000 = 20%). Once the paid total reaches it the
	// document enters in_progress.
	MinAdvanceBps int64 `json:"min_advance_bps"`

	// AllowPartialCompletion permits Complete before the ledger reports
	// full payment.
	AllowPartialCompletion bool `json:"allow_partial_completion"`

	Currency string `json:"currency"`
}

// MinAdvanceCents returns the advance threshold for the given cost, rounded
// up so a strict reading of the ratio is never undercut.
func (c ServiceConfig) MinAdvanceCents(costCents int64) int64 {
	return (costCents*c.MinAdvanceBps + 9999) / 10000
}

// Catalog resolves service codes to their lifecycle policy.
type Catalog interface {
	Config(ctx context.Context, serviceCode string) (ServiceConfig, error)
}

// Static is an in-memory Catalog populated at startup.
type Static struct {
	services map[string]ServiceConfig
}

var _ Catalog = (*Static)(nil)

// defaultServices covers the storefront's service types; overridable via
// SERVICE_CATALOG_JSON.
var defaultServices = []ServiceConfig{
	{Code: "notarization", MinAdvanceBps: 2000, AllowPartialCompletion: false, Currency: "USD"},
	{Code: "apostille", MinAdvanceBps: 2000, AllowPartialCompletion: false, Currency: "USD"},
	{Code: "certified_translation", MinAdvanceBps: 5000, AllowPartialCompletion: true, Currency: "USD"},
}

// Load builds a Static catalog from the defaults, letting overridesJSON
// (a JSON array of ServiceConfig) replace or extend them.
func Load(overridesJSON string) (*Static, error) {
	services := make(map[string]ServiceConfig, len(defaultServices))
	for _, sc := range defaultServices {
		services[sc.Code] = sc
	}

	if overridesJSON != "" {
		var overrides []ServiceConfig
		if err := json.Unmarshal([]byte(overridesJSON), &overrides); err != nil {
			return nil, fmt.Errorf("parse service catalog overrides: %w", err)
		}
		for _, sc := range overrides {
			if sc.Code == "" {
				return nil, fmt.Errorf("service catalog override without code")
			}
			if sc.MinAdvanceBps < 0 || sc.MinAdvanceBps > 10000 {
				return nil, fmt.Errorf("service %s: min advance %d out of range", sc.Code, sc.MinAdvanceBps)
			}
			services[sc.Code] = sc
		}
	}

	return &Static{services: services}, nil
}

func (s *Static) Config(ctx context.Context, serviceCode string) (ServiceConfig, error) {
	sc, ok := s.services[serviceCode]
	if !ok {
		return ServiceConfig{}, fmt.Errorf("%w: %s", ErrUnknownService, serviceCode)
	}
	return sc, nil
}
