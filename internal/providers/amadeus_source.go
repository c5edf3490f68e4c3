package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"voyago/internal/models/response_models"
)

const (
	amadeusTestHost       = "https://test.api.amadeus.com"
	amadeusProductionHost = "https://api.amadeus.com"
)

// AmadeusSource talks to the Amadeus self-service REST APIs and implements
// both FlightSource and HotelSource. All of its errors are absorbed by the
// adapters in front of it.
type AmadeusSource struct {
	clientID     string
	clientSecret string
	host         string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusSource(clientID, clientSecret, environment string) *AmadeusSource {
	host := amadeusTestHost
	if environment == "production" {
		host = amadeusProductionHost
	}
	return &AmadeusSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		host:         host,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *AmadeusSource) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus token endpoint returned %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	a.accessToken = body.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-60) * time.Second)
	return a.accessToken, nil
}

func (a *AmadeusSource) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.host+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amadeus %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var amadeusCabins = map[string]string{
	"economy":         "ECONOMY",
	"premium_economy": "PREMIUM_ECONOMY",
	"business":        "BUSINESS",
	"first":           "FIRST",
}

var cabinClassTypes = map[string]string{
	"ECONOMY":         "economy",
	"PREMIUM_ECONOMY": "premium_economy",
	"BUSINESS":        "business",
	"FIRST":           "first",
}

type amadeusSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

type amadeusFlightOffer struct {
	ID          string             `json:"id"`
	Itineraries []amadeusItinerary `json:"itineraries"`
	Price       struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	TravelerPricings []struct {
		FareDetailsBySegment []struct {
			Cabin string `json:"cabin"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

func (a *AmadeusSource) SearchFlights(ctx context.Context, q FlightQuery) ([]response_models.FlightOffer, error) {
	cabin, ok := amadeusCabins[strings.ToLower(q.ClassType)]
	if !ok {
		cabin = "ECONOMY"
	}

	params := url.Values{
		"originLocationCode":      {strings.ToUpper(q.Origin)},
		"destinationLocationCode": {strings.ToUpper(q.Destination)},
		"departureDate":           {q.DepartureDate},
		"adults":                  {strconv.Itoa(q.Passengers)},
		"travelClass":             {cabin},
		"currencyCode":            {"USD"},
		"max":                     {"50"},
	}
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}

	var body struct {
		Data []amadeusFlightOffer `json:"data"`
	}
	if err := a.get(ctx, "/v2/shopping/flight-offers", params, &body); err != nil {
		return nil, err
	}

	offers := make([]response_models.FlightOffer, 0, len(body.Data))
	for _, raw := range body.Data {
		offer, ok := normalizeAmadeusOffer(raw, q.ReturnDate)
		if ok {
			offers = append(offers, offer)
		}
	}
	return offers, nil
}

func normalizeAmadeusOffer(raw amadeusFlightOffer, returnDate string) (response_models.FlightOffer, bool) {
	if len(raw.Itineraries) == 0 || len(raw.Itineraries[0].Segments) == 0 {
		return response_models.FlightOffer{}, false
	}

	outbound := raw.Itineraries[0]
	first := outbound.Segments[0]
	last := outbound.Segments[len(outbound.Segments)-1]

	price, _ := strconv.ParseFloat(raw.Price.Total, 64)
	currency := raw.Price.Currency
	if currency == "" {
		currency = "USD"
	}

	classType := "economy"
	if len(raw.TravelerPricings) > 0 && len(raw.TravelerPricings[0].FareDetailsBySegment) > 0 {
		if mapped, ok := cabinClassTypes[raw.TravelerPricings[0].FareDetailsBySegment[0].Cabin]; ok {
			classType = mapped
		}
	}

	offer := response_models.FlightOffer{
		OfferID:       raw.ID,
		Airline:       AirlineName(first.CarrierCode),
		FlightNumber:  first.CarrierCode + first.Number,
		DepartureTime: clockFromTimestamp(first.Departure.At),
		ArrivalTime:   clockFromTimestamp(last.Arrival.At),
		Duration:      FormatISODuration(outbound.Duration),
		Price:         price,
		Currency:      currency,
		ClassType:     classType,
		Stops:         len(outbound.Segments) - 1,
		TripType:      "one_way",
	}

	if returnDate != "" {
		offer.TripType = "return"
		offer.ReturnDate = returnDate
		if len(raw.Itineraries) > 1 && len(raw.Itineraries[1].Segments) > 0 {
			inbound := raw.Itineraries[1]
			inFirst := inbound.Segments[0]
			inLast := inbound.Segments[len(inbound.Segments)-1]

			offer.ReturnAirline = AirlineName(inFirst.CarrierCode)
			offer.ReturnFlightNumber = inFirst.CarrierCode + inFirst.Number
			offer.ReturnDepartureTime = clockFromTimestamp(inFirst.Departure.At)
			offer.ReturnArrivalTime = clockFromTimestamp(inLast.Arrival.At)
			offer.ReturnDuration = FormatISODuration(inbound.Duration)
			offer.ReturnStops = len(inbound.Segments) - 1
			if len(inFirst.Departure.At) >= 10 {
				offer.ReturnDate = inFirst.Departure.At[:10]
			}
		}
	}

	return offer, true
}

// clockFromTimestamp extracts HH:MM from an ISO timestamp like
// 2025-06-01T18:20:00.
func clockFromTimestamp(ts string) string {
	if len(ts) >= 16 {
		return ts[11:16]
	}
	return ts
}

func (a *AmadeusSource) SearchHotels(ctx context.Context, q HotelQuery) ([]response_models.HotelOffer, error) {
	listParams := url.Values{
		"cityCode":   {strings.ToUpper(q.CityCode)},
		"radius":     {strconv.Itoa(q.RadiusKm)},
		"radiusUnit": {"KM"},
	}

	var listing struct {
		Data []struct {
			HotelID string `json:"hotelId"`
			Name    string `json:"name"`
			GeoCode struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"geoCode"`
			Address struct {
				Lines    []string `json:"lines"`
				CityName string   `json:"cityName"`
			} `json:"address"`
			Rating string `json:"rating"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v1/reference-data/locations/hotels/by-city", listParams, &listing); err != nil {
		return nil, err
	}
	if len(listing.Data) == 0 {
		return nil, nil
	}

	// Cap the follow-up offers call to keep the request small.
	ids := make([]string, 0, 20)
	type hotelInfo struct {
		name, address, city string
		lat, lng, rating    float64
	}
	info := make(map[string]hotelInfo)
	for _, h := range listing.Data {
		if h.HotelID == "" {
			continue
		}
		rating, _ := strconv.ParseFloat(h.Rating, 64)
		address := ""
		if len(h.Address.Lines) > 0 {
			address = h.Address.Lines[0]
		}
		info[h.HotelID] = hotelInfo{
			name: h.Name, address: address, city: h.Address.CityName,
			lat: h.GeoCode.Latitude, lng: h.GeoCode.Longitude, rating: rating,
		}
		ids = append(ids, h.HotelID)
		if len(ids) == 20 {
			break
		}
	}

	offerParams := url.Values{
		"hotelIds":     {strings.Join(ids, ",")},
		"checkInDate":  {q.CheckIn},
		"checkOutDate": {q.CheckOut},
		"adults":       {strconv.Itoa(q.Adults)},
		"roomQuantity": {strconv.Itoa(q.Rooms)},
		"currency":     {"USD"},
	}

	var offerBody struct {
		Data []struct {
			Hotel struct {
				HotelID string `json:"hotelId"`
				Name    string `json:"name"`
			} `json:"hotel"`
			Offers []struct {
				ID           string `json:"id"`
				CheckInDate  string `json:"checkInDate"`
				CheckOutDate string `json:"checkOutDate"`
				Room         struct {
					TypeEstimated struct {
						Category string `json:"category"`
					} `json:"typeEstimated"`
				} `json:"room"`
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/v3/shopping/hotel-offers", offerParams, &offerBody); err != nil {
		return nil, err
	}

	offers := make([]response_models.HotelOffer, 0, len(offerBody.Data))
	for _, entry := range offerBody.Data {
		if len(entry.Offers) == 0 {
			continue
		}
		first := entry.Offers[0]
		total, _ := strconv.ParseFloat(first.Price.Total, 64)
		currency := first.Price.Currency
		if currency == "" {
			currency = "USD"
		}

		meta := info[entry.Hotel.HotelID]
		name := meta.name
		if name == "" {
			name = entry.Hotel.Name
		}
		roomType := first.Room.TypeEstimated.Category
		if roomType == "" {
			roomType = "Standard Room"
		}

		offers = append(offers, response_models.HotelOffer{
			HotelID:       entry.Hotel.HotelID,
			Name:          name,
			Address:       meta.address,
			City:          meta.city,
			Rating:        meta.rating,
			Latitude:      meta.lat,
			Longitude:     meta.lng,
			PricePerNight: total,
			TotalPrice:    total,
			Currency:      currency,
			RoomType:      roomType,
			Amenities:     []string{},
			CheckInDate:   first.CheckInDate,
			CheckOutDate:  first.CheckOutDate,
		})
	}
	return offers, nil
}
