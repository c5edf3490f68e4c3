package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"voyago/internal/models/response_models"
)

const googleMapsHost = "https://maps.googleapis.com/maps/api"

// GoogleMapsSource backs both PlaceSource and GeocodeSource with the Google
// Maps web-service APIs.
type GoogleMapsSource struct {
	apiKey     string
	httpClient *http.Client
}

func NewGoogleMapsSource(apiKey string) *GoogleMapsSource {
	return &GoogleMapsSource{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleMapsSource) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleMapsHost+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google maps %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type googlePlaceResult struct {
	Name     string   `json:"name"`
	PlaceID  string   `json:"place_id"`
	Types    []string `json:"types"`
	Rating   float64  `json:"rating"`
	Ratings  int      `json:"user_ratings_total"`
	Vicinity string   `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
	Photos           []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

func (g *GoogleMapsSource) SearchPlaces(ctx context.Context, q PlaceQuery) ([]response_models.PlaceMatch, error) {
	params := url.Values{"query": {q.Query}}
	if q.Location != nil {
		params.Set("location", fmt.Sprintf("%f,%f", q.Location.Lat, q.Location.Lng))
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = 2000
		}
		params.Set("radius", strconv.Itoa(radius))
	}
	if q.Category != "" {
		params.Set("type", q.Category)
	}

	var body struct {
		Status  string              `json:"status"`
		Results []googlePlaceResult `json:"results"`
	}
	if err := g.get(ctx, "/place/textsearch/json", params, &body); err != nil {
		return nil, err
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("place search returned status %s", body.Status)
	}

	matches := make([]response_models.PlaceMatch, 0, len(body.Results))
	for _, r := range body.Results {
		vicinity := r.Vicinity
		if vicinity == "" {
			vicinity = r.FormattedAddress
		}
		match := response_models.PlaceMatch{
			Name:             r.Name,
			PlaceID:          r.PlaceID,
			Types:            r.Types,
			Rating:           r.Rating,
			UserRatingsTotal: r.Ratings,
			Location: &response_models.Coordinates{
				Lat: r.Geometry.Location.Lat,
				Lng: r.Geometry.Location.Lng,
			},
			Vicinity: vicinity,
		}
		if len(r.Photos) > 0 {
			match.PhotoReference = r.Photos[0].PhotoReference
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (g *GoogleMapsSource) Geocode(ctx context.Context, address string) (*response_models.Coordinates, error) {
	var body struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := g.get(ctx, "/geocode/json", url.Values{"address": {address}}, &body); err != nil {
		return nil, err
	}
	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return nil, nil
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("geocoding returned status %s", body.Status)
	}

	loc := body.Results[0].Geometry.Location
	return &response_models.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (g *GoogleMapsSource) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	var body struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	params := url.Values{"latlng": {fmt.Sprintf("%f,%f", lat, lng)}}
	if err := g.get(ctx, "/geocode/json", params, &body); err != nil {
		return "", err
	}
	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return "", nil
	}
	if body.Status != "OK" {
		return "", fmt.Errorf("reverse geocoding returned status %s", body.Status)
	}
	return body.Results[0].FormattedAddress, nil
}
