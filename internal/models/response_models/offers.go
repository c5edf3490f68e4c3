package response_models

// FlightOffer is the normalized shape every flight source (live or
// synthetic) is converted into, sorted ascending by price at the adapter
// boundary.
type FlightOffer struct {
	OfferID       string  `json:"offer_id,omitempty"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Duration      string  `json:"duration"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	ClassType     string  `json:"class_type"`
	Stops         int     `json:"stops"`
	TripType      string  `json:"trip_type"`

	// Return leg, present on round trips.
	ReturnAirline       string `json:"return_airline,omitempty"`
	ReturnFlightNumber  string `json:"return_flight_number,omitempty"`
	ReturnDepartureTime string `json:"return_departure_time,omitempty"`
	ReturnArrivalTime   string `json:"return_arrival_time,omitempty"`
	ReturnDuration      string `json:"return_duration,omitempty"`
	ReturnStops         int    `json:"return_stops,omitempty"`
	ReturnDate          string `json:"return_date,omitempty"`
}

type HotelOffer struct {
	HotelID       string   `json:"hotel_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Rating        float64  `json:"rating"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	PricePerNight float64  `json:"price_per_night"`
	TotalPrice    float64  `json:"total_price"`
	Currency      string   `json:"currency"`
	RoomType      string   `json:"room_type"`
	DistanceKm    float64  `json:"distance_km,omitempty"`
	Amenities     []string `json:"amenities"`
	Tier          string   `json:"tier,omitempty"`
	CheckInDate   string   `json:"check_in_date"`
	CheckOutDate  string   `json:"check_out_date"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PlaceMatch struct {
	Name             string       `json:"name"`
	PlaceID          string       `json:"place_id"`
	Types            []string     `json:"types,omitempty"`
	Rating           float64      `json:"rating"`
	UserRatingsTotal int          `json:"user_ratings_total"`
	Location         *Coordinates `json:"location,omitempty"`
	Vicinity         string       `json:"vicinity"`
	PhotoReference   string       `json:"photo_reference,omitempty"`
}

// PatchResult reports the outcome of a conversational edit. On failure the
// Plan field carries the caller's prior plan untouched.
type PatchResult struct {
	Success bool    `json:"success"`
	Plan    RawPlan `json:"plan"`
	Message string  `json:"message"`
}
