package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/samber/lo"

	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/providers"
	"voyago/pkg/utils"
)

// PlannerInterface is the full generation pipeline: draft, ground against
// provider data, validate. The returned Plan is the only shape handed to
// callers.
type PlannerInterface interface {
	GeneratePlan(ctx context.Context, spec request_models.TripSpecification) (*response_models.Plan, error)
}

type PlannerService struct {
	drafter   DrafterInterface
	flights   providers.FlightsClientInterface
	places    providers.PlacesClientInterface
	geocoding providers.GeocodingInterface
}

func NewPlannerService(
	drafter DrafterInterface,
	flights providers.FlightsClientInterface,
	places providers.PlacesClientInterface,
	geocoding providers.GeocodingInterface,
) PlannerInterface {
	return &PlannerService{
		drafter:   drafter,
		flights:   flights,
		places:    places,
		geocoding: geocoding,
	}
}

func (p *PlannerService) GeneratePlan(ctx context.Context, spec request_models.TripSpecification) (*response_models.Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	// Geocoding and drafting are independent; run the geocode lookup while
	// the model works.
	type geocodeResult struct {
		coords *response_models.Coordinates
		ok     bool
	}
	geocodeCh := make(chan geocodeResult, 1)
	go func() {
		coords, ok := p.geocoding.Geocode(ctx, spec.Destination)
		geocodeCh <- geocodeResult{coords, ok}
	}()

	draft, err := p.drafter.DraftPlan(ctx, spec)
	if err != nil {
		return nil, err
	}

	geo := <-geocodeCh

	flight := p.resolveFlight(ctx, spec)

	if geo.ok {
		p.enrichItinerary(ctx, draft, *geo.coords)
	}

	plan := p.buildPlan(draft, spec, flight)
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrPlanNotProduced, err)
	}
	return plan, nil
}

// resolveFlight picks the flight the plan is grounded on: the user's
// selection wins, then the cheapest in-budget offer, then the cheapest
// offer outright. Nil means the draft's own estimate stands.
func (p *PlannerService) resolveFlight(ctx context.Context, spec request_models.TripSpecification) *response_models.FlightOffer {
	if spec.SelectedFlight != nil {
		return spec.SelectedFlight
	}

	query := providers.FlightQuery{
		Origin:        spec.Source,
		Destination:   spec.Destination,
		DepartureDate: spec.StartDate,
		Passengers:    spec.Travelers,
		ClassType:     spec.FlightClass,
	}
	if spec.TripType == request_models.TripTypeReturn {
		query.ReturnDate = spec.EndDate
	}

	offers := p.flights.Search(ctx, query)
	if len(offers) == 0 {
		return nil
	}

	inBudget := lo.Filter(offers, func(o response_models.FlightOffer, _ int) bool {
		return o.Price >= spec.FlightPriceMin && o.Price <= spec.FlightPriceMax
	})
	if len(inBudget) > 0 {
		return &inBudget[0]
	}
	return &offers[0]
}

// enrichItinerary overlays real place data onto draft activities in place.
// Attractions and restaurants get their rating, vicinity and review count
// from the best nearby match; everything else passes through.
func (p *PlannerService) enrichItinerary(ctx context.Context, draft response_models.RawPlan, coords response_models.Coordinates) {
	if !p.places.Available() {
		return
	}

	days, ok := draft["itinerary"].([]interface{})
	if !ok {
		return
	}

	for _, rawDay := range days {
		day, ok := rawDay.(map[string]interface{})
		if !ok {
			continue
		}
		for _, slot := range []string{"morning", "afternoon", "evening"} {
			activities, ok := day[slot].([]interface{})
			if !ok {
				continue
			}
			for _, rawActivity := range activities {
				activity, ok := rawActivity.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := activity["name"].(string)
				if name == "" {
					continue
				}

				category := "restaurant"
				if activityType, _ := activity["type"].(string); activityType == "attraction" {
					category = "tourist_attraction"
				}

				match := p.places.EnrichActivity(ctx, name, coords, category)
				if match == nil {
					continue
				}
				activity["rating"] = match.Rating
				activity["user_ratings_total"] = match.UserRatingsTotal
				if match.Vicinity != "" {
					activity["location"] = match.Vicinity
				}
			}
		}
	}
}

// buildPlan converts the enriched draft into the validated output shape.
// Route, dates, travelers and duration always come from the specification;
// the draft supplies only what providers could not ground.
func (p *PlannerService) buildPlan(draft response_models.RawPlan, spec request_models.TripSpecification, flight *response_models.FlightOffer) *response_models.Plan {
	duration := spec.DurationDays()

	plan := &response_models.Plan{
		PlanType:     planType(spec),
		Source:       spec.Source,
		Destination:  spec.Destination,
		StartDate:    spec.StartDate,
		EndDate:      spec.EndDate,
		DurationDays: duration,
		Travelers:    spec.Travelers,
	}

	plan.Transportation = []response_models.Transportation{p.buildTransportation(draft, spec, flight)}
	plan.Accommodation = p.buildAccommodation(draft, spec, duration)
	plan.Itinerary = p.buildItinerary(draft, duration)
	plan.CostBreakdown = buildCostBreakdown(draft)

	plan.Summary, _ = draft["summary"].(string)
	plan.Highlights = stringSlice(draft["highlights"])
	plan.Tips = stringSlice(draft["tips"])

	return plan
}

func (p *PlannerService) buildTransportation(draft response_models.RawPlan, spec request_models.TripSpecification, flight *response_models.FlightOffer) response_models.Transportation {
	draftTransport, _ := draft["transportation"].(map[string]interface{})

	arrivalDate := spec.StartDate
	notes := "One-way flight"
	if spec.TripType == request_models.TripTypeReturn {
		arrivalDate = spec.EndDate
		notes = "Round trip flight"
	}

	t := response_models.Transportation{
		Type:          "flight",
		FromLocation:  spec.Source,
		ToLocation:    spec.Destination,
		DepartureDate: spec.StartDate,
		ArrivalDate:   arrivalDate,
		ClassType:     spec.FlightClass,
		Currency:      "USD",
		Notes:         notes,
	}

	if draftTransport != nil {
		if airline, _ := draftTransport["airline"].(string); airline != "" {
			t.Airline = airline
		}
		if duration, _ := draftTransport["duration"].(string); duration != "" {
			t.Duration = duration
		}
		if draftNotes, _ := draftTransport["notes"].(string); draftNotes != "" {
			t.Notes = draftNotes
		}
		t.Price = numberField(draftTransport, "estimated_price", "price")
	}

	if flight != nil {
		t.Airline = flight.Airline
		t.FlightNumber = flight.FlightNumber
		t.DepartureTime = flight.DepartureTime
		t.ArrivalTime = flight.ArrivalTime
		t.Duration = flight.Duration
		t.Price = flight.Price
		if flight.Currency != "" {
			t.Currency = flight.Currency
		}
		if flight.ClassType != "" {
			t.ClassType = flight.ClassType
		}
	}

	return t
}

func (p *PlannerService) buildAccommodation(draft response_models.RawPlan, spec request_models.TripSpecification, duration int) response_models.Accommodation {
	draftAccom, _ := draft["accommodation"].(map[string]interface{})

	a := response_models.Accommodation{
		Name:     "Hotel",
		Type:     "hotel",
		Location: spec.Destination,
		CheckIn:  spec.StartDate,
		CheckOut: spec.EndDate,
		Nights:   duration,
		Currency: "USD",
	}

	if draftAccom != nil {
		if name, _ := draftAccom["name"].(string); name != "" {
			a.Name = name
		}
		if address, _ := draftAccom["address"].(string); address != "" {
			a.Location = address
			a.Address = address
		}
		a.PricePerNight = numberField(draftAccom, "price_per_night")
		a.TotalPrice = numberField(draftAccom, "total_price")
		a.Rating = numberField(draftAccom, "rating")
		a.Notes, _ = draftAccom["notes"].(string)
		a.Amenities = stringSlice(draftAccom["amenities"])
	}

	// A concrete hotel selection beats the draft's suggestion, and the
	// user's stated address preference beats both.
	if spec.SelectedHotel != nil {
		h := spec.SelectedHotel
		a.Name = h.Name
		a.PricePerNight = h.PricePerNight
		a.TotalPrice = h.TotalPrice
		a.Rating = h.Rating
		if h.Address != "" {
			a.Location = h.Address
			a.Address = h.Address
		}
		if h.Currency != "" {
			a.Currency = h.Currency
		}
		if h.RoomType != "" {
			a.Notes = h.RoomType
		}
		if len(h.Amenities) > 0 {
			a.Amenities = h.Amenities
		}
	}
	if spec.HotelAddress != "" {
		a.Location = spec.HotelAddress
		a.Address = spec.HotelAddress
	}

	return a
}

func (p *PlannerService) buildItinerary(draft response_models.RawPlan, duration int) []response_models.DayPlan {
	rawDays, _ := draft["itinerary"].([]interface{})

	if len(rawDays) < duration {
		log.Printf("Warning: draft generated %d itinerary days, expected %d", len(rawDays), duration)
	}
	if len(rawDays) > duration {
		rawDays = rawDays[:duration]
	}

	itinerary := make([]response_models.DayPlan, 0, len(rawDays))
	for idx, rawDay := range rawDays {
		dayMap, ok := rawDay.(map[string]interface{})
		if !ok {
			continue
		}

		day := response_models.DayPlan{
			DayNumber: idx + 1,
			Morning:   parseActivities(dayMap["morning"], "morning"),
			Afternoon: parseActivities(dayMap["afternoon"], "afternoon"),
			Evening:   parseActivities(dayMap["evening"], "evening"),
		}
		day.Date, _ = dayMap["date"].(string)
		day.Notes, _ = dayMap["notes"].(string)
		itinerary = append(itinerary, day)
	}
	return itinerary
}

// parseActivities decodes one time slot's activities, dropping any entry
// that does not fit the Activity shape rather than failing the whole plan.
func parseActivities(raw interface{}, slot string) []response_models.Activity {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	activities := make([]response_models.Activity, 0, len(entries))
	for _, entry := range entries {
		activityMap, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if _, hasTime := activityMap["time"]; !hasTime {
			activityMap["time"] = slot
		}

		encoded, err := json.Marshal(activityMap)
		if err != nil {
			log.Printf("Skipping malformed activity in %s slot: %v", slot, err)
			continue
		}
		var activity response_models.Activity
		if err := json.Unmarshal(encoded, &activity); err != nil {
			log.Printf("Skipping malformed activity in %s slot: %v", slot, err)
			continue
		}
		activities = append(activities, activity)
	}
	return activities
}

func buildCostBreakdown(draft response_models.RawPlan) response_models.CostBreakdown {
	costs, _ := draft["cost_breakdown"].(map[string]interface{})
	if costs == nil {
		return response_models.CostBreakdown{Currency: "USD"}
	}
	return response_models.CostBreakdown{
		Transportation: numberField(costs, "transportation"),
		Accommodation:  numberField(costs, "accommodation"),
		Activities:     numberField(costs, "activities"),
		Food:           numberField(costs, "food"),
		LocalTransport: numberField(costs, "local_transport"),
		Total:          numberField(costs, "total"),
		PerPerson:      numberField(costs, "per_person"),
		Currency:       "USD",
	}
}

// planType labels the plan for display from the stated budget posture.
func planType(spec request_models.TripSpecification) string {
	switch {
	case (spec.FlightClass == request_models.ClassFirst || spec.FlightClass == request_models.ClassBusiness) && spec.HotelPriceMax > 300:
		return "comfort"
	case spec.FlightClass == request_models.ClassEconomy && spec.HotelPriceMax < 150:
		return "budget"
	default:
		return "balanced"
	}
}

// numberField reads the first present numeric key from a decoded JSON map.
func numberField(m map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := m[key].(float64); ok {
			return v
		}
	}
	return 0
}

func stringSlice(raw interface{}) []string {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
