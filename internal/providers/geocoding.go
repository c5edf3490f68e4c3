package providers

import (
	"context"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"voyago/internal/models/response_models"
)

// GeocodeSource is the raw external geocoding provider, free to fail.
type GeocodeSource interface {
	Geocode(ctx context.Context, address string) (*response_models.Coordinates, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

type GeocodingInterface interface {
	// Geocode resolves an address to coordinates. False on no result or
	// any upstream failure; absence only disables enrichment downstream.
	Geocode(ctx context.Context, address string) (*response_models.Coordinates, bool)
	// ReverseGeocode resolves coordinates to a formatted address.
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, bool)
	Available() bool
}

type GeocodingClient struct {
	upstream GeocodeSource
	cache    *gocache.Cache
}

func NewGeocodingClient(upstream GeocodeSource) GeocodingInterface {
	return &GeocodingClient{
		upstream: upstream,
		cache:    gocache.New(time.Hour, 2*time.Hour),
	}
}

func (g *GeocodingClient) Geocode(ctx context.Context, address string) (*response_models.Coordinates, bool) {
	if g.upstream == nil || address == "" {
		return nil, false
	}

	if cached, ok := g.cache.Get(address); ok {
		coords := cached.(response_models.Coordinates)
		return &coords, true
	}

	coords, err := g.upstream.Geocode(ctx, address)
	if err != nil {
		log.Printf("Geocoding error for %q: %v", address, err)
		return nil, false
	}
	if coords == nil {
		return nil, false
	}

	g.cache.Set(address, *coords, gocache.DefaultExpiration)
	return coords, true
}

func (g *GeocodingClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, bool) {
	if g.upstream == nil {
		return "", false
	}

	address, err := g.upstream.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		log.Printf("Reverse geocoding error: %v", err)
		return "", false
	}
	return address, address != ""
}

func (g *GeocodingClient) Available() bool { return g.upstream != nil }
