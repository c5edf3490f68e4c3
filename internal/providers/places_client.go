package providers

import (
	"context"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"voyago/internal/models/response_models"
)

type PlaceQuery struct {
	Query        string
	Location     *response_models.Coordinates
	RadiusMeters int
	Category     string
}

// PlaceSource is the raw external place provider, free to fail.
type PlaceSource interface {
	SearchPlaces(ctx context.Context, q PlaceQuery) ([]response_models.PlaceMatch, error)
}

type PlacesClientInterface interface {
	// Search returns up to ten matches, or nothing on any upstream
	// failure. Never fails.
	Search(ctx context.Context, q PlaceQuery) []response_models.PlaceMatch
	// EnrichActivity looks an activity name up near the given coordinates
	// and returns the highest-rated match, or nil.
	EnrichActivity(ctx context.Context, name string, coords response_models.Coordinates, category string) *response_models.PlaceMatch
	// Available reports whether a live source is configured. When false,
	// itineraries simply go unenriched; there is no synthetic stand-in.
	Available() bool
}

type PlacesClient struct {
	upstream PlaceSource
	cache    *gocache.Cache
}

func NewPlacesClient(upstream PlaceSource) PlacesClientInterface {
	return &PlacesClient{
		upstream: upstream,
		cache:    gocache.New(10*time.Minute, 30*time.Minute),
	}
}

func (p *PlacesClient) Search(ctx context.Context, q PlaceQuery) []response_models.PlaceMatch {
	if p.upstream == nil || q.Query == "" {
		return nil
	}

	key := cacheKey(q)
	if cached, ok := p.cache.Get(key); ok {
		return cached.([]response_models.PlaceMatch)
	}

	matches, err := p.upstream.SearchPlaces(ctx, q)
	if err != nil {
		log.Printf("Place search failed for %q: %v", q.Query, err)
		return nil
	}

	if len(matches) > 10 {
		matches = matches[:10]
	}
	p.cache.Set(key, matches, gocache.DefaultExpiration)
	return matches
}

func (p *PlacesClient) EnrichActivity(ctx context.Context, name string, coords response_models.Coordinates, category string) *response_models.PlaceMatch {
	if name == "" {
		return nil
	}

	matches := p.Search(ctx, PlaceQuery{
		Query:        name,
		Location:     &coords,
		RadiusMeters: 2000,
		Category:     category,
	})
	if len(matches) == 0 {
		return nil
	}

	best := lo.MaxBy(matches, func(a, b response_models.PlaceMatch) bool {
		return a.Rating > b.Rating
	})
	return &best
}

func (p *PlacesClient) Available() bool { return p.upstream != nil }

func cacheKey(q PlaceQuery) string {
	if q.Location != nil {
		return fmt.Sprintf("%s|%s|%d|%.4f,%.4f", q.Query, q.Category, q.RadiusMeters, q.Location.Lat, q.Location.Lng)
	}
	return fmt.Sprintf("%s|%s|%d", q.Query, q.Category, q.RadiusMeters)
}
