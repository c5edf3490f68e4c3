package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/providers"
	"voyago/pkg/utils"
)

// SearchController exposes the pre-selection lookups: callers browse
// flights, hotels and places here, then pin a choice into the trip
// specification they submit for generation.
type SearchController struct {
	flightsClient providers.FlightsClientInterface
	hotelsClient  providers.HotelsClientInterface
	placesClient  providers.PlacesClientInterface
	geocoding     providers.GeocodingInterface
}

func NewSearchController(
	flightsClient providers.FlightsClientInterface,
	hotelsClient providers.HotelsClientInterface,
	placesClient providers.PlacesClientInterface,
	geocoding providers.GeocodingInterface,
) *SearchController {
	return &SearchController{
		flightsClient: flightsClient,
		hotelsClient:  hotelsClient,
		placesClient:  placesClient,
		geocoding:     geocoding,
	}
}

type flightSearchResponse struct {
	Offers    []response_models.FlightOffer `json:"offers"`
	Synthetic bool                          `json:"synthetic"`
}

type hotelSearchResponse struct {
	Offers    []response_models.HotelOffer `json:"offers"`
	Synthetic bool                         `json:"synthetic"`
}

// GET /search/flights
func (s *SearchController) SearchFlightsHandler(c *gin.Context) {
	var req request_models.FlightSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Origin == "" || req.Destination == "" || req.DepartureDate == "" {
		utils.RespondError(c, http.StatusBadRequest, "origin, destination and departure_date are required")
		return
	}

	offers := s.flightsClient.Search(c.Request.Context(), providers.FlightQuery{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Passengers:    req.Passengers,
		ClassType:     req.ClassType,
	})

	utils.RespondSuccess(c, flightSearchResponse{
		Offers:    offers,
		Synthetic: s.flightsClient.Synthetic(),
	}, "Flights retrieved")
}

// GET /search/hotels
func (s *SearchController) SearchHotelsHandler(c *gin.Context) {
	var req request_models.HotelSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.CityCode == "" || req.CheckIn == "" || req.CheckOut == "" {
		utils.RespondError(c, http.StatusBadRequest, "city_code, check_in and check_out are required")
		return
	}

	query := providers.HotelQuery{
		CityCode: req.CityCode,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Adults:   req.Adults,
		Rooms:    req.Rooms,
	}
	if req.LandmarkLat != 0 || req.LandmarkLng != 0 {
		query.Landmark = &response_models.Coordinates{Lat: req.LandmarkLat, Lng: req.LandmarkLng}
	}

	offers := s.hotelsClient.Search(c.Request.Context(), query)

	utils.RespondSuccess(c, hotelSearchResponse{
		Offers:    offers,
		Synthetic: s.hotelsClient.Synthetic(),
	}, "Hotels retrieved")
}

// GET /search/places
func (s *SearchController) SearchPlacesHandler(c *gin.Context) {
	var req request_models.PlaceSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil || req.Query == "" {
		utils.RespondError(c, http.StatusBadRequest, "query is required")
		return
	}

	if !s.placesClient.Available() {
		utils.RespondError(c, http.StatusServiceUnavailable, "Place search is not configured")
		return
	}

	matches := s.placesClient.Search(c.Request.Context(), providers.PlaceQuery{Query: req.Query})
	utils.RespondSuccess(c, matches, "Places retrieved")
}
