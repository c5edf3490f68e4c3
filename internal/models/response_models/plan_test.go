package response_models

import (
	"strings"
	"testing"
)

func validPlan() Plan {
	return Plan{
		PlanType:     "balanced",
		Source:       "New York",
		Destination:  "Paris",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-05",
		DurationDays: 5,
		Travelers:    2,
		Transportation: []Transportation{
			{Type: "flight", FromLocation: "New York", ToLocation: "Paris", DepartureDate: "2025-06-01", ArrivalDate: "2025-06-05"},
		},
		Accommodation: Accommodation{Name: "Hotel Lutetia", Type: "hotel", Location: "Paris", CheckIn: "2025-06-01", CheckOut: "2025-06-05", Nights: 5},
		Itinerary: []DayPlan{
			{Date: "2025-06-01", DayNumber: 1},
			{Date: "2025-06-02", DayNumber: 2},
		},
	}
}

func TestPlanValidateAccepts(t *testing.T) {
	plan := validPlan()
	if err := plan.Validate(); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}
}

func TestPlanValidateAllowsShortItinerary(t *testing.T) {
	// Fewer generated days than the trip lasts is a known gap, not an error.
	plan := validPlan()
	plan.Itinerary = plan.Itinerary[:1]
	if err := plan.Validate(); err != nil {
		t.Fatalf("short itinerary should be allowed: %v", err)
	}
}

func TestPlanValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Plan)
		wantMsg string
	}{
		{"no source", func(p *Plan) { p.Source = "" }, "route"},
		{"no dates", func(p *Plan) { p.StartDate = "" }, "dates"},
		{"zero duration", func(p *Plan) { p.DurationDays = 0 }, "duration_days"},
		{"zero travelers", func(p *Plan) { p.Travelers = 0 }, "travelers"},
		{"no transportation", func(p *Plan) { p.Transportation = nil }, "transportation"},
		{"no accommodation", func(p *Plan) { p.Accommodation.Name = "" }, "accommodation"},
		{"too many days", func(p *Plan) {
			p.Itinerary = []DayPlan{{DayNumber: 1}, {DayNumber: 2}, {DayNumber: 3}, {DayNumber: 4}, {DayNumber: 5}, {DayNumber: 6}}
		}, "itinerary"},
		{"broken numbering", func(p *Plan) { p.Itinerary[1].DayNumber = 5 }, "day_number"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := validPlan()
			c.mutate(&plan)
			err := plan.Validate()
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(err.Error(), c.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, c.wantMsg)
			}
		})
	}
}
