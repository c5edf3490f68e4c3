package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maps"

	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

const patchSystemPrompt = `You are an expert travel planner assistant. You are helping modify an existing travel itinerary based on user feedback.

Your task is to:
1. Understand the user's request for changes
2. Modify ONLY the relevant parts of the itinerary
3. Keep ALL other fields intact (source, destination, dates, travelers, costs, etc.)
4. Return the complete modified plan in the EXACT same JSON structure

Be helpful. If the user asks to:
- Add an activity: Find an appropriate time slot and add it
- Remove an activity: Remove it from the itinerary
- Change a restaurant: Replace it with a suitable alternative
- Swap days: Reorganize the itinerary accordingly
- Add more free time: Reduce activities appropriately
- Make it more active/relaxed: Adjust activity density
- Focus on specific interests: Modify activities to match

CRITICAL: Your response must be a valid JSON object with this EXACT structure:
{
    "plan_type": "string",
    "source": "string",
    "destination": "string",
    "start_date": "YYYY-MM-DD",
    "end_date": "YYYY-MM-DD",
    "duration_days": number,
    "travelers": number,
    "transportation": [{"type": "flight", "from_location": "...", "to_location": "...", "departure_date": "...", "arrival_date": "...", ...}],
    "accommodation": {"name": "...", "type": "hotel", "location": "...", "check_in": "...", "check_out": "...", "nights": number, ...},
    "itinerary": [{"date": "YYYY-MM-DD", "day_number": 1, "morning": [...], "afternoon": [...], "evening": [...]}],
    "cost_breakdown": {"transportation": 0, "accommodation": 0, "activities": 0, "food": 0, "local_transport": 0, "total": 0},
    "summary": "string",
    "highlights": ["..."],
    "tips": ["..."]
}

IMPORTANT:
- "transportation" must be an ARRAY (list) of transportation objects
- Keep all existing field values unless the user specifically asks to change them
- Return ONLY the JSON object, no additional text or explanation`

const patchHistoryLimit = 6

// PatchInterface applies one conversational edit to a caller-held plan.
// The engine is stateless: everything it needs rides in on the request, and
// the caller's plan is never mutated.
type PatchInterface interface {
	ApplyEdit(ctx context.Context, current response_models.RawPlan, message string, history []utils.ChatMessage) response_models.PatchResult
}

type PatchService struct {
	llm utils.PlannerClientInterface
}

func NewPatchService(llm utils.PlannerClientInterface) PatchInterface {
	return &PatchService{llm: llm}
}

func (s *PatchService) ApplyEdit(ctx context.Context, current response_models.RawPlan, message string, history []utils.ChatMessage) response_models.PatchResult {
	planJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		log.Printf("Error serializing current plan for edit: %v", err)
		return failedPatch(current, "Sorry, something went wrong while updating the itinerary. Please try again.")
	}

	messages := []utils.ChatMessage{
		{Role: "user", Content: fmt.Sprintf("Here is the current travel plan that needs to be modified:\n\n```json\n%s\n```\n\nModify this plan according to the user's request. Return the complete updated plan as a valid JSON object.", planJSON)},
		{Role: "assistant", Content: "I understand the current travel plan. What changes would you like to make?"},
	}
	if len(history) > patchHistoryLimit {
		history = history[len(history)-patchHistoryLimit:]
	}
	messages = append(messages, history...)
	messages = append(messages, utils.ChatMessage{Role: "user", Content: message})

	content, err := s.llm.CompleteJSON(ctx, patchSystemPrompt, messages)
	if err != nil {
		log.Printf("Error modifying itinerary: %v", err)
		return failedPatch(current, "Sorry, something went wrong while updating the itinerary. Please try again.")
	}

	var patch response_models.RawPlan
	if err := json.Unmarshal([]byte(content), &patch); err != nil {
		// The model sometimes wraps its JSON in prose; pull out the first
		// balanced object before giving up.
		extracted := utils.CleanJSONResponse(content)
		if err := json.Unmarshal([]byte(extracted), &patch); err != nil {
			return failedPatch(current, "I understood your request but had trouble updating the plan. Could you try rephrasing?")
		}
	}

	normalizeTransportation(patch)

	merged := maps.Clone(current)
	if merged == nil {
		merged = response_models.RawPlan{}
	}
	maps.Copy(merged, patch)

	if err := validateMerged(merged); err != nil {
		log.Printf("Rejected edit, merged plan failed validation: %v", err)
		return failedPatch(current, "I understood your request but had trouble updating the plan. Could you try rephrasing?")
	}

	return response_models.PatchResult{
		Success: true,
		Plan:    merged,
		Message: "Itinerary updated successfully!",
	}
}

// normalizeTransportation wraps a bare transportation object in a
// single-element list, the canonical shape.
func normalizeTransportation(patch response_models.RawPlan) {
	raw, ok := patch["transportation"]
	if !ok {
		return
	}
	if _, isList := raw.([]interface{}); !isList {
		patch["transportation"] = []interface{}{raw}
	}
}

// validateMerged round-trips the merged record through the typed Plan to
// confirm the edit did not break the plan's structural invariants.
func validateMerged(merged response_models.RawPlan) error {
	encoded, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	var plan response_models.Plan
	if err := json.Unmarshal(encoded, &plan); err != nil {
		return err
	}
	return plan.Validate()
}

func failedPatch(current response_models.RawPlan, message string) response_models.PatchResult {
	return response_models.PatchResult{
		Success: false,
		Plan:    current,
		Message: message,
	}
}
