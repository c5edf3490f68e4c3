package providers_fx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"voyago/internal/providers"
)

var Module = fx.Provide(
	ProvideAmadeusSource,
	ProvideGoogleMapsSource,
	ProvideFlightsClient,
	ProvideHotelsClient,
	ProvidePlacesClient,
	ProvideGeocodingClient,
)

// ProvideAmadeusSource builds the live flight and hotel source when Amadeus
// credentials are configured. Without them the adapters run on synthetic
// data, which is a supported mode, not an error.
func ProvideAmadeusSource() *providers.AmadeusSource {
	clientID := os.Getenv("AMADEUS_CLIENT_ID")
	clientSecret := os.Getenv("AMADEUS_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Println("Amadeus credentials not configured, flight and hotel searches will use synthetic data")
		return nil
	}
	return providers.NewAmadeusSource(clientID, clientSecret, os.Getenv("AMADEUS_ENVIRONMENT"))
}

// ProvideGoogleMapsSource builds the live place and geocoding source when a
// Google Maps key is configured. Without it, itineraries go unenriched.
func ProvideGoogleMapsSource() *providers.GoogleMapsSource {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		log.Println("Google Maps key not configured, place enrichment and geocoding are disabled")
		return nil
	}
	return providers.NewGoogleMapsSource(apiKey)
}

func ProvideFlightsClient(amadeus *providers.AmadeusSource) providers.FlightsClientInterface {
	if amadeus == nil {
		return providers.NewFlightsClient(nil)
	}
	return providers.NewFlightsClient(amadeus)
}

func ProvideHotelsClient(amadeus *providers.AmadeusSource) providers.HotelsClientInterface {
	if amadeus == nil {
		return providers.NewHotelsClient(nil)
	}
	return providers.NewHotelsClient(amadeus)
}

func ProvidePlacesClient(google *providers.GoogleMapsSource) providers.PlacesClientInterface {
	if google == nil {
		return providers.NewPlacesClient(nil)
	}
	return providers.NewPlacesClient(google)
}

func ProvideGeocodingClient(google *providers.GoogleMapsSource) providers.GeocodingInterface {
	if google == nil {
		return providers.NewGeocodingClient(nil)
	}
	return providers.NewGeocodingClient(google)
}
