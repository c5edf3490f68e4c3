package response_models

import "fmt"

// RawPlan is an unvalidated plan-shaped record as returned by the generative
// model. It is deliberately loose: only the reconciler and the patch engine
// are allowed to turn one into a Plan.
type RawPlan map[string]interface{}

type Transportation struct {
	Type          string  `json:"type"`
	FromLocation  string  `json:"from_location"`
	ToLocation    string  `json:"to_location"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time,omitempty"`
	ArrivalDate   string  `json:"arrival_date"`
	ArrivalTime   string  `json:"arrival_time,omitempty"`
	Airline       string  `json:"airline,omitempty"`
	FlightNumber  string  `json:"flight_number,omitempty"`
	ClassType     string  `json:"class_type,omitempty"`
	Price         float64 `json:"price,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type Accommodation struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"price_per_night,omitempty"`
	TotalPrice    float64  `json:"total_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Address       string   `json:"address,omitempty"`
	CheckIn       string   `json:"check_in"`
	CheckOut      string   `json:"check_out"`
	Nights        int      `json:"nights"`
	Notes         string   `json:"notes,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
}

type Activity struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Time             string  `json:"time"`
	Description      string  `json:"description,omitempty"`
	Location         string  `json:"location,omitempty"`
	Duration         string  `json:"duration,omitempty"`
	Cost             float64 `json:"cost,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	Rating           float64 `json:"rating,omitempty"`
	UserRatingsTotal int     `json:"user_ratings_total,omitempty"`
}

type DayPlan struct {
	Date      string     `json:"date"`
	DayNumber int        `json:"day_number"`
	Morning   []Activity `json:"morning"`
	Afternoon []Activity `json:"afternoon"`
	Evening   []Activity `json:"evening"`
	Notes     string     `json:"notes,omitempty"`
}

type CostBreakdown struct {
	Transportation float64 `json:"transportation"`
	Accommodation  float64 `json:"accommodation"`
	Activities     float64 `json:"activities"`
	Food           float64 `json:"food"`
	LocalTransport float64 `json:"local_transport"`
	Total          float64 `json:"total"`
	Currency       string  `json:"currency,omitempty"`
	PerPerson      float64 `json:"per_person,omitempty"`
}

// Plan is the validated output aggregate. Plans are immutable values: an
// accepted edit produces a brand-new Plan, never an in-place mutation.
type Plan struct {
	PlanType     string  `json:"plan_type"`
	Source       string  `json:"source"`
	Destination  string  `json:"destination"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DurationDays int     `json:"duration_days"`
	Travelers    int     `json:"travelers"`

	Transportation []Transportation `json:"transportation"`
	Accommodation  Accommodation    `json:"accommodation"`
	Itinerary      []DayPlan        `json:"itinerary"`
	CostBreakdown  CostBreakdown    `json:"cost_breakdown"`

	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	Tips       []string `json:"tips,omitempty"`
}

// Validate checks the structural invariants every Plan must hold. It does
// not require itinerary length to equal duration_days: an under-generated
// itinerary is an acknowledged gap, but day numbering must still be
// contiguous from 1.
func (p *Plan) Validate() error {
	if p.Source == "" || p.Destination == "" {
		return fmt.Errorf("plan route is incomplete")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return fmt.Errorf("plan dates are incomplete")
	}
	if p.DurationDays < 1 {
		return fmt.Errorf("duration_days must be at least 1, got %d", p.DurationDays)
	}
	if p.Travelers < 1 {
		return fmt.Errorf("travelers must be at least 1, got %d", p.Travelers)
	}
	if len(p.Transportation) == 0 {
		return fmt.Errorf("plan has no transportation")
	}
	if p.Accommodation.Name == "" {
		return fmt.Errorf("plan has no accommodation")
	}
	if len(p.Itinerary) > p.DurationDays {
		return fmt.Errorf("itinerary has %d days for a %d-day trip", len(p.Itinerary), p.DurationDays)
	}
	for i, day := range p.Itinerary {
		if day.DayNumber != i+1 {
			return fmt.Errorf("itinerary day %d has day_number %d", i+1, day.DayNumber)
		}
	}
	return nil
}
