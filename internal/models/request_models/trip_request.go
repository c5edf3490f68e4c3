package request_models

import (
	"fmt"
	"time"

	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

const (
	TripTypeOneWay = "one_way"
	TripTypeReturn = "return"

	ClassEconomy        = "economy"
	ClassPremiumEconomy = "premium_economy"
	ClassBusiness       = "business"
	ClassFirst          = "first"

	ActivityRelaxed  = "relaxed"
	ActivityModerate = "moderate"
	ActivityActive   = "active"
)

const dateLayout = "2006-01-02"

// TripSpecification is the immutable input of one generation request. A new
// specification is created per request; regeneration builds a fresh one.
type TripSpecification struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Travelers   int    `json:"travelers"`
	TripType    string `json:"trip_type"`

	FlightClass    string  `json:"flight_class"`
	FlightPriceMin float64 `json:"flight_price_min"`
	FlightPriceMax float64 `json:"flight_price_max"`

	HotelAddress  string  `json:"hotel_address,omitempty"`
	HotelPriceMin float64 `json:"hotel_price_min"`
	HotelPriceMax float64 `json:"hotel_price_max"`

	InterestCategories []string `json:"interest_categories"`
	ActivityLevel      string   `json:"activity_level"`

	SelectedFlight *response_models.FlightOffer `json:"selected_flight,omitempty"`
	SelectedHotel  *response_models.HotelOffer  `json:"selected_hotel,omitempty"`
}

func (s *TripSpecification) Validate() error {
	if s.Source == "" || s.Destination == "" {
		return fmt.Errorf("%w: source and destination are required", utils.ErrInvalidTripSpec)
	}

	start, err := time.Parse(dateLayout, s.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", utils.ErrInvalidTripSpec)
	}
	end, err := time.Parse(dateLayout, s.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end_date must be YYYY-MM-DD", utils.ErrInvalidTripSpec)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end_date must be after start_date", utils.ErrInvalidTripSpec)
	}
	if d := s.DurationDays(); d < 1 || d > 30 {
		return fmt.Errorf("%w: trip duration must be between 1 and 30 days", utils.ErrInvalidTripSpec)
	}

	if s.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", utils.ErrInvalidTripSpec)
	}

	switch s.TripType {
	case TripTypeOneWay, TripTypeReturn:
	default:
		return fmt.Errorf("%w: trip_type must be one_way or return", utils.ErrInvalidTripSpec)
	}

	switch s.FlightClass {
	case ClassEconomy, ClassPremiumEconomy, ClassBusiness, ClassFirst:
	default:
		return fmt.Errorf("%w: unknown flight_class %q", utils.ErrInvalidTripSpec, s.FlightClass)
	}

	switch s.ActivityLevel {
	case ActivityRelaxed, ActivityModerate, ActivityActive:
	default:
		return fmt.Errorf("%w: unknown activity_level %q", utils.ErrInvalidTripSpec, s.ActivityLevel)
	}

	if s.FlightPriceMin > s.FlightPriceMax {
		return fmt.Errorf("%w: flight price range is inverted", utils.ErrInvalidTripSpec)
	}
	if s.HotelPriceMin > s.HotelPriceMax {
		return fmt.Errorf("%w: hotel price range is inverted", utils.ErrInvalidTripSpec)
	}

	return nil
}

// DurationDays is end - start + 1, counting both endpoints as trip days.
// Returns 0 when either date does not parse.
func (s *TripSpecification) DurationDays() int {
	start, err := time.Parse(dateLayout, s.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, s.EndDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// EditPlanRequest carries the caller's current plan as a raw record plus the
// conversational edit instruction and bounded history. Session state lives
// with the caller, never in the service.
type EditPlanRequest struct {
	Plan    response_models.RawPlan `json:"plan"`
	Message string                  `json:"message"`
	History []utils.ChatMessage     `json:"history,omitempty"`
}

// Search requests used by the pre-selection endpoints.

type FlightSearchRequest struct {
	Origin        string `form:"origin" json:"origin"`
	Destination   string `form:"destination" json:"destination"`
	DepartureDate string `form:"departure_date" json:"departure_date"`
	ReturnDate    string `form:"return_date" json:"return_date,omitempty"`
	Passengers    int    `form:"passengers" json:"passengers"`
	ClassType     string `form:"class_type" json:"class_type"`
}

type HotelSearchRequest struct {
	CityCode    string  `form:"city_code" json:"city_code"`
	CheckIn     string  `form:"check_in" json:"check_in"`
	CheckOut    string  `form:"check_out" json:"check_out"`
	Adults      int     `form:"adults" json:"adults"`
	Rooms       int     `form:"rooms" json:"rooms"`
	LandmarkLat float64 `form:"landmark_lat" json:"landmark_lat,omitempty"`
	LandmarkLng float64 `form:"landmark_lng" json:"landmark_lng,omitempty"`
}

type PlaceSearchRequest struct {
	Query string `form:"query" json:"query"`
}
