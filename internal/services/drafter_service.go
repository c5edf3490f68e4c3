package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

const drafterSystemPrompt = `You are an expert travel planner. Generate detailed, realistic travel plans in JSON format.
Be specific with activities, locations, and recommendations. Provide accurate price estimates based on the plan type.
Always return valid JSON.`

// DrafterInterface turns a trip specification into a raw, unvalidated plan
// draft. The draft is advisory: every number and name in it is an estimate
// until the reconciler has its say.
type DrafterInterface interface {
	DraftPlan(ctx context.Context, spec request_models.TripSpecification) (response_models.RawPlan, error)
}

type DrafterService struct {
	llm utils.PlannerClientInterface
}

func NewDrafterService(llm utils.PlannerClientInterface) DrafterInterface {
	return &DrafterService{llm: llm}
}

func (d *DrafterService) DraftPlan(ctx context.Context, spec request_models.TripSpecification) (response_models.RawPlan, error) {
	prompt := buildDraftPrompt(spec)

	content, err := d.llm.CompleteJSON(ctx, drafterSystemPrompt, []utils.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDraftGeneration, err)
	}

	var draft response_models.RawPlan
	if err := json.Unmarshal([]byte(utils.CleanJSONResponse(content)), &draft); err != nil {
		return nil, fmt.Errorf("%w: model returned unparseable JSON: %v", utils.ErrDraftGeneration, err)
	}
	return draft, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func interestList(categories []string) string {
	if len(categories) == 0 {
		return "General tourism"
	}
	return strings.Join(lo.Map(categories, func(c string, _ int) string { return titleCase(c) }), ", ")
}

func paceDescription(level string) string {
	switch level {
	case request_models.ActivityRelaxed:
		return "more relaxed pace, fewer activities"
	case request_models.ActivityActive:
		return "active schedule with many activities and experiences"
	default:
		return "moderate pace with balanced activities"
	}
}

func paceRequirement(level string) string {
	switch level {
	case request_models.ActivityRelaxed:
		return "pace should be relaxed"
	case request_models.ActivityActive:
		return "active and packed schedule"
	default:
		return "moderate pace"
	}
}

// diningTier keys the dining recommendation off the hotel budget ceiling.
func diningTier(hotelPriceMax float64) string {
	switch {
	case hotelPriceMax < 150:
		return "budget-friendly options"
	case hotelPriceMax < 300:
		return "mid-range restaurants"
	default:
		return "fine dining and premium restaurants"
	}
}

func buildDraftPrompt(spec request_models.TripSpecification) string {
	duration := spec.DurationDays()
	classDisplay := titleCase(spec.FlightClass)
	interests := interestList(spec.InterestCategories)

	hotelLocationNote := ""
	hotelNearClause := ""
	if spec.HotelAddress != "" {
		hotelLocationNote = fmt.Sprintf("IMPORTANT: User prefers hotel location: %s. Try to suggest hotels in this area.", spec.HotelAddress)
		hotelNearClause = " near " + spec.HotelAddress
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate a detailed personalized travel plan from %s to %s based on the following preferences:

Trip Details:
- Source: %s
- Destination: %s
- Start Date: %s
- End Date: %s
- Duration: %d days (IMPORTANT: Generate itinerary for ALL %d days)
- Travelers: %d

Flight Preferences:
- Class: %s
- Price Range: $%.0f - $%.0f

Hotel Preferences:
- Type: Hotel only
- Price Range: $%.0f - $%.0f per night
%s

Activity Preferences:
- Interests: %s
- Activity Level: %s

Guidelines:
- Transportation: %s class flights, stay within $%.0f-$%.0f price range
- Accommodation: Hotels in the $%.0f-$%.0f/night range%s
- Activities: Focus on %s. Activity level should be %s (%s)
- Dining: Match the hotel price range level - %s
`,
		spec.Source, spec.Destination,
		spec.Source, spec.Destination, spec.StartDate, spec.EndDate,
		duration, duration, spec.Travelers,
		classDisplay, spec.FlightPriceMin, spec.FlightPriceMax,
		spec.HotelPriceMin, spec.HotelPriceMax, hotelLocationNote,
		interests, titleCase(spec.ActivityLevel),
		classDisplay, spec.FlightPriceMin, spec.FlightPriceMax,
		spec.HotelPriceMin, spec.HotelPriceMax, hotelNearClause,
		interests, spec.ActivityLevel, paceDescription(spec.ActivityLevel),
		diningTier(spec.HotelPriceMax))

	fmt.Fprintf(&b, `
Generate a comprehensive travel plan in JSON format with the following structure:

{
    "plan_type": "customized",
    "summary": "Brief summary of the plan",
    "transportation": {
        "type": "flight",
        "from_location": "%s",
        "to_location": "%s",
        "departure_date": "%s",
        "arrival_date": "%s",
        "airline": "suggested airline",
        "class_type": "%s",
        "estimated_price": 0.0,
        "duration": "estimated duration",
        "notes": "any relevant notes"
    },
    "accommodation": {
        "name": "hotel name suggestion",
        "type": "hotel",
        "location": "%s",
        "price_per_night": 0.0,
        "total_price": 0.0,
        "check_in": "%s",
        "check_out": "%s",
        "nights": %d,
        "rating": 0.0,
        "amenities": ["amenity1", "amenity2"],
        "notes": "accommodation notes"
    },
    "itinerary": [
        {
            "date": "YYYY-MM-DD",
            "day_number": 1,
            "morning": [{"name": "activity", "type": "attraction", "time": "morning", "description": "...", "location": "...", "duration": "...", "cost": 0.0}],
            "afternoon": [{"name": "activity", "type": "attraction", "time": "afternoon", "description": "...", "location": "...", "duration": "...", "cost": 0.0}],
            "evening": [{"name": "activity", "type": "restaurant", "time": "evening", "description": "...", "location": "...", "duration": "...", "cost": 0.0}]
        }
        ... generate for ALL %d days of the trip ...
    ],
    "cost_breakdown": {
        "transportation": 0.0,
        "accommodation": 0.0,
        "activities": 0.0,
        "food": 0.0,
        "local_transport": 0.0,
        "total": 0.0,
        "per_person": 0.0
    },
    "highlights": ["highlight1", "highlight2"],
    "tips": ["tip1", "tip2"]
}

CRITICAL REQUIREMENTS:
1. Generate itinerary for ALL %d days of the trip (from %s to %s)
2. Each day must have day_number from 1 to %d, with corresponding dates
3. Fill in realistic activities for EACH day matching the interests: %s
4. Include morning, afternoon, and evening activities for EVERY day
5. Provide accurate price estimates within the specified ranges (flight: $%.0f-$%.0f, hotel: $%.0f-$%.0f/night)
6. Match the %s activity level - %s
7. All prices should be in USD
8. Focus activities on: %s
9. The itinerary array MUST contain exactly %d day objects, one for each day of the trip
10. Return ONLY valid JSON, no additional text`,
		spec.Source, spec.Destination, spec.StartDate, spec.StartDate, spec.FlightClass,
		spec.Destination, spec.StartDate, spec.EndDate, duration,
		duration,
		duration, spec.StartDate, spec.EndDate, duration, interests,
		spec.FlightPriceMin, spec.FlightPriceMax, spec.HotelPriceMin, spec.HotelPriceMax,
		spec.ActivityLevel, paceRequirement(spec.ActivityLevel),
		interests, duration)

	return b.String()
}
