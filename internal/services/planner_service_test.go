package services

import (
	"context"
	"errors"
	"testing"

	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/providers"
	"voyago/pkg/utils"
)

type fakeDrafter struct {
	draft response_models.RawPlan
	err   error
}

func (f *fakeDrafter) DraftPlan(ctx context.Context, spec request_models.TripSpecification) (response_models.RawPlan, error) {
	return f.draft, f.err
}

type fakeFlightsClient struct {
	offers []response_models.FlightOffer
}

func (f *fakeFlightsClient) Search(ctx context.Context, q providers.FlightQuery) []response_models.FlightOffer {
	return f.offers
}

func (f *fakeFlightsClient) BestOffer(ctx context.Context, q providers.FlightQuery, preference string) *response_models.FlightOffer {
	if len(f.offers) == 0 {
		return nil
	}
	return &f.offers[0]
}

func (f *fakeFlightsClient) Synthetic() bool { return true }

type fakePlacesClient struct {
	match *response_models.PlaceMatch
}

func (f *fakePlacesClient) Search(ctx context.Context, q providers.PlaceQuery) []response_models.PlaceMatch {
	if f.match == nil {
		return nil
	}
	return []response_models.PlaceMatch{*f.match}
}

func (f *fakePlacesClient) EnrichActivity(ctx context.Context, name string, coords response_models.Coordinates, category string) *response_models.PlaceMatch {
	return f.match
}

func (f *fakePlacesClient) Available() bool { return f.match != nil }

type fakeGeocoding struct {
	coords *response_models.Coordinates
}

func (f *fakeGeocoding) Geocode(ctx context.Context, address string) (*response_models.Coordinates, bool) {
	return f.coords, f.coords != nil
}

func (f *fakeGeocoding) ReverseGeocode(ctx context.Context, lat, lng float64) (string, bool) {
	return "", false
}

func (f *fakeGeocoding) Available() bool { return f.coords != nil }

func parisSpec() request_models.TripSpecification {
	return request_models.TripSpecification{
		Source:         "New York",
		Destination:    "Paris",
		StartDate:      "2025-06-01",
		EndDate:        "2025-06-05",
		Travelers:      2,
		TripType:       request_models.TripTypeReturn,
		FlightClass:    request_models.ClassEconomy,
		FlightPriceMin: 300,
		FlightPriceMax: 900,
		HotelPriceMin:  100,
		HotelPriceMax:  250,
		ActivityLevel:  request_models.ActivityModerate,
	}
}

func draftActivity(name, activityType string) map[string]interface{} {
	return map[string]interface{}{
		"name": name, "type": activityType, "description": "worth a visit",
	}
}

func draftDay(date string, number int) map[string]interface{} {
	return map[string]interface{}{
		"date":       date,
		"day_number": float64(number),
		"morning":    []interface{}{draftActivity("Louvre Museum", "attraction")},
		"afternoon":  []interface{}{draftActivity("Seine Walk", "attraction")},
		"evening":    []interface{}{draftActivity("Le Petit Bistro", "restaurant")},
	}
}

func parisDraft(days int) response_models.RawPlan {
	itinerary := make([]interface{}, 0, days)
	dates := []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05"}
	for i := 0; i < days; i++ {
		itinerary = append(itinerary, draftDay(dates[i], i+1))
	}
	return response_models.RawPlan{
		"plan_type": "customized",
		"summary":   "Five days in Paris",
		"transportation": map[string]interface{}{
			"type": "flight", "airline": "Air France", "estimated_price": 650.0, "duration": "7h 30m",
		},
		"accommodation": map[string]interface{}{
			"name": "Hotel Lutetia", "type": "hotel", "price_per_night": 220.0,
			"total_price": 1100.0, "rating": 4.5,
		},
		"itinerary": itinerary,
		"cost_breakdown": map[string]interface{}{
			"transportation": 1300.0, "accommodation": 1100.0, "activities": 400.0,
			"food": 600.0, "local_transport": 100.0, "total": 3500.0, "per_person": 1750.0,
		},
		"highlights": []interface{}{"Louvre", "Eiffel Tower"},
		"tips":       []interface{}{"Buy museum tickets ahead"},
	}
}

func newTestPlanner(drafter DrafterInterface, flights providers.FlightsClientInterface, places providers.PlacesClientInterface, geo providers.GeocodingInterface) PlannerInterface {
	return NewPlannerService(drafter, flights, places, geo)
}

func TestGeneratePlanFullItinerary(t *testing.T) {
	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(5)},
		&fakeFlightsClient{offers: []response_models.FlightOffer{
			{Airline: "Delta Air Lines", FlightNumber: "DL263", Price: 720, Currency: "USD", ClassType: "economy", DepartureTime: "18:30", ArrivalTime: "07:45", Duration: "7h 15m"},
		}},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	if plan.DurationDays != 5 {
		t.Fatalf("expected 5 duration days, got %d", plan.DurationDays)
	}
	if len(plan.Itinerary) != 5 {
		t.Fatalf("expected 5 itinerary days, got %d", len(plan.Itinerary))
	}
	for i, day := range plan.Itinerary {
		if day.DayNumber != i+1 {
			t.Fatalf("day %d has day_number %d", i, day.DayNumber)
		}
	}
	if plan.Accommodation.CheckIn != "2025-06-01" || plan.Accommodation.CheckOut != "2025-06-05" {
		t.Fatalf("accommodation dates do not match the trip: %s to %s", plan.Accommodation.CheckIn, plan.Accommodation.CheckOut)
	}
	if plan.Accommodation.Nights != 5 {
		t.Fatalf("expected 5 nights, got %d", plan.Accommodation.Nights)
	}
	if plan.Source != "New York" || plan.Destination != "Paris" {
		t.Fatalf("route came from the draft, not the specification: %s to %s", plan.Source, plan.Destination)
	}

	// The flight search offer grounds the transportation entry.
	transport := plan.Transportation[0]
	if transport.Airline != "Delta Air Lines" || transport.FlightNumber != "DL263" {
		t.Fatalf("transportation not grounded on the searched offer: %+v", transport)
	}
	if transport.Price != 720 {
		t.Fatalf("expected offer price 720, got %f", transport.Price)
	}
	if transport.ArrivalDate != "2025-06-05" {
		t.Fatalf("return trip should arrive back on the end date, got %s", transport.ArrivalDate)
	}
}

func TestGeneratePlanSelectedFlightWins(t *testing.T) {
	selected := &response_models.FlightOffer{
		Airline: "United Airlines", FlightNumber: "UA57", Price: 540,
		DepartureTime: "10:00", ArrivalTime: "22:10", Duration: "7h 10m", ClassType: "economy",
	}
	spec := parisSpec()
	spec.SelectedFlight = selected

	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(5)},
		&fakeFlightsClient{offers: []response_models.FlightOffer{{Airline: "Should Not Appear", Price: 100}}},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), spec)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	transport := plan.Transportation[0]
	if transport.Airline != "United Airlines" || transport.FlightNumber != "UA57" || transport.Price != 540 {
		t.Fatalf("selected flight was not honored: %+v", transport)
	}
}

func TestGeneratePlanPrefersInBudgetOffer(t *testing.T) {
	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(5)},
		&fakeFlightsClient{offers: []response_models.FlightOffer{
			{Airline: "Cheap Air", Price: 150},
			{Airline: "Budget Fit", Price: 450},
			{Airline: "Premium Air", Price: 1500},
		}},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if plan.Transportation[0].Airline != "Budget Fit" {
		t.Fatalf("expected the cheapest in-budget offer, got %s", plan.Transportation[0].Airline)
	}
}

func TestGeneratePlanUnderGeneratedItineraryIsKept(t *testing.T) {
	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(3)},
		&fakeFlightsClient{},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if len(plan.Itinerary) != 3 {
		t.Fatalf("expected the 3 generated days kept as-is, got %d", len(plan.Itinerary))
	}
	if plan.DurationDays != 5 {
		t.Fatalf("duration must still reflect the trip, got %d", plan.DurationDays)
	}
	for i, day := range plan.Itinerary {
		if day.DayNumber != i+1 {
			t.Fatalf("day %d has day_number %d", i, day.DayNumber)
		}
	}
}

func TestGeneratePlanEnrichesActivities(t *testing.T) {
	match := &response_models.PlaceMatch{
		Name: "Louvre Museum", Rating: 4.7, UserRatingsTotal: 250000,
		Vicinity: "Rue de Rivoli, Paris",
	}
	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(5)},
		&fakeFlightsClient{},
		&fakePlacesClient{match: match},
		&fakeGeocoding{coords: &response_models.Coordinates{Lat: 48.8566, Lng: 2.3522}},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	morning := plan.Itinerary[0].Morning
	if len(morning) == 0 {
		t.Fatal("morning activities went missing")
	}
	if morning[0].Rating != 4.7 || morning[0].UserRatingsTotal != 250000 {
		t.Fatalf("activity not enriched: %+v", morning[0])
	}
	if morning[0].Location != "Rue de Rivoli, Paris" {
		t.Fatalf("activity location not overwritten with vicinity: %q", morning[0].Location)
	}
}

func TestGeneratePlanMalformedActivityIsDropped(t *testing.T) {
	draft := parisDraft(5)
	day := draft["itinerary"].([]interface{})[0].(map[string]interface{})
	day["morning"] = []interface{}{
		draftActivity("Louvre Museum", "attraction"),
		map[string]interface{}{"name": "Broken", "cost": "not a number"},
	}

	planner := newTestPlanner(
		&fakeDrafter{draft: draft},
		&fakeFlightsClient{},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if len(plan.Itinerary[0].Morning) != 1 {
		t.Fatalf("expected the malformed activity dropped, got %d activities", len(plan.Itinerary[0].Morning))
	}
}

func TestGeneratePlanHotelAddressPreferenceWins(t *testing.T) {
	spec := parisSpec()
	spec.HotelAddress = "Le Marais, Paris"
	spec.SelectedHotel = &response_models.HotelOffer{
		Name: "Hotel du Marais", Address: "12 Rue des Archives", PricePerNight: 180, Rating: 4.2,
	}

	planner := newTestPlanner(
		&fakeDrafter{draft: parisDraft(5)},
		&fakeFlightsClient{},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), spec)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if plan.Accommodation.Name != "Hotel du Marais" {
		t.Fatalf("selected hotel not honored: %s", plan.Accommodation.Name)
	}
	if plan.Accommodation.Location != "Le Marais, Paris" {
		t.Fatalf("stated address preference should win: %s", plan.Accommodation.Location)
	}
}

func TestGeneratePlanInvalidSpecRejected(t *testing.T) {
	spec := parisSpec()
	spec.EndDate = "2025-05-01"

	planner := newTestPlanner(&fakeDrafter{draft: parisDraft(5)}, &fakeFlightsClient{}, &fakePlacesClient{}, &fakeGeocoding{})

	if _, err := planner.GeneratePlan(context.Background(), spec); !errors.Is(err, utils.ErrInvalidTripSpec) {
		t.Fatalf("expected ErrInvalidTripSpec, got %v", err)
	}
}

func TestGeneratePlanDrafterFailurePropagates(t *testing.T) {
	planner := newTestPlanner(
		&fakeDrafter{err: utils.ErrDraftGeneration},
		&fakeFlightsClient{},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	if _, err := planner.GeneratePlan(context.Background(), parisSpec()); !errors.Is(err, utils.ErrDraftGeneration) {
		t.Fatalf("expected ErrDraftGeneration, got %v", err)
	}
}

func TestGeneratePlanMinimalDraftStillValid(t *testing.T) {
	// A nearly empty draft still yields a structurally valid plan: the
	// specification supplies the route and dates, defaults cover the rest.
	planner := newTestPlanner(
		&fakeDrafter{draft: response_models.RawPlan{"summary": "nothing else"}},
		&fakeFlightsClient{},
		&fakePlacesClient{},
		&fakeGeocoding{},
	)

	plan, err := planner.GeneratePlan(context.Background(), parisSpec())
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("plan from minimal draft fails validation: %v", err)
	}
	if plan.Accommodation.Name == "" || len(plan.Transportation) == 0 {
		t.Fatalf("defaults were not applied: %+v", plan)
	}
}

func TestPlanTypeLabels(t *testing.T) {
	spec := parisSpec()

	spec.FlightClass = request_models.ClassBusiness
	spec.HotelPriceMax = 500
	if got := planType(spec); got != "comfort" {
		t.Fatalf("expected comfort, got %s", got)
	}

	spec.FlightClass = request_models.ClassEconomy
	spec.HotelPriceMax = 120
	if got := planType(spec); got != "budget" {
		t.Fatalf("expected budget, got %s", got)
	}

	spec.HotelPriceMax = 250
	if got := planType(spec); got != "balanced" {
		t.Fatalf("expected balanced, got %s", got)
	}
}
