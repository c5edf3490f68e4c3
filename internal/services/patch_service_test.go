package services

import (
	"context"
	"encoding/json"
	"testing"

	"voyago/internal/models/response_models"
	"voyago/pkg/utils"
)

type fakePlannerClient struct {
	response string
	err      error
	messages []utils.ChatMessage
}

func (f *fakePlannerClient) CompleteJSON(ctx context.Context, systemPrompt string, messages []utils.ChatMessage) (string, error) {
	f.messages = messages
	return f.response, f.err
}

func (f *fakePlannerClient) Close() error { return nil }

func basePlan() response_models.RawPlan {
	return response_models.RawPlan{
		"plan_type":     "balanced",
		"source":        "New York",
		"destination":   "Paris",
		"start_date":    "2025-06-01",
		"end_date":      "2025-06-05",
		"duration_days": float64(5),
		"travelers":     float64(2),
		"transportation": []interface{}{
			map[string]interface{}{"type": "flight", "from_location": "New York", "to_location": "Paris"},
		},
		"accommodation": map[string]interface{}{"name": "Hotel Lutetia", "type": "hotel"},
		"itinerary": []interface{}{
			map[string]interface{}{"date": "2025-06-01", "day_number": float64(1)},
		},
		"cost_breakdown": map[string]interface{}{"total": float64(3500)},
		"summary":        "Five days in Paris",
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	encoded, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(encoded)
}

func TestApplyEditShallowMergeKeepsUntouchedFields(t *testing.T) {
	patch := basePlan()
	patch["summary"] = "Five days in Paris with more museums"
	delete(patch, "cost_breakdown")

	llm := &fakePlannerClient{response: mustJSON(t, patch)}
	service := NewPatchService(llm)

	result := service.ApplyEdit(context.Background(), basePlan(), "add more museums", nil)
	if !result.Success {
		t.Fatalf("edit failed: %s", result.Message)
	}
	if result.Plan["summary"] != "Five days in Paris with more museums" {
		t.Fatalf("patched field not applied: %v", result.Plan["summary"])
	}
	costs, ok := result.Plan["cost_breakdown"].(map[string]interface{})
	if !ok || costs["total"] != float64(3500) {
		t.Fatalf("field absent from the patch should survive the merge: %v", result.Plan["cost_breakdown"])
	}
}

func TestApplyEditDoesNotMutateCallerPlan(t *testing.T) {
	patch := basePlan()
	patch["summary"] = "changed"
	llm := &fakePlannerClient{response: mustJSON(t, patch)}
	service := NewPatchService(llm)

	current := basePlan()
	result := service.ApplyEdit(context.Background(), current, "change the summary", nil)

	if !result.Success {
		t.Fatalf("edit failed: %s", result.Message)
	}
	if current["summary"] != "Five days in Paris" {
		t.Fatalf("caller's plan was mutated: %v", current["summary"])
	}
}

func TestApplyEditNormalizesTransportationObject(t *testing.T) {
	patch := basePlan()
	patch["transportation"] = map[string]interface{}{
		"type": "flight", "from_location": "New York", "to_location": "Paris",
	}
	llm := &fakePlannerClient{response: mustJSON(t, patch)}
	service := NewPatchService(llm)

	result := service.ApplyEdit(context.Background(), basePlan(), "tweak the flight", nil)
	if !result.Success {
		t.Fatalf("edit failed: %s", result.Message)
	}
	if _, ok := result.Plan["transportation"].([]interface{}); !ok {
		t.Fatalf("transportation should be a list, got %T", result.Plan["transportation"])
	}
}

func TestApplyEditExtractsEmbeddedJSON(t *testing.T) {
	patch := basePlan()
	patch["summary"] = "extracted"
	llm := &fakePlannerClient{response: "Sure, here is the updated plan:\n\n" + mustJSON(t, patch) + "\n\nEnjoy your trip!"}
	service := NewPatchService(llm)

	result := service.ApplyEdit(context.Background(), basePlan(), "update it", nil)
	if !result.Success {
		t.Fatalf("expected extraction to rescue the response: %s", result.Message)
	}
	if result.Plan["summary"] != "extracted" {
		t.Fatalf("extracted patch not applied: %v", result.Plan["summary"])
	}
}

func TestApplyEditGarbageResponseKeepsPriorPlan(t *testing.T) {
	llm := &fakePlannerClient{response: "I cannot do that, sorry."}
	service := NewPatchService(llm)

	current := basePlan()
	result := service.ApplyEdit(context.Background(), current, "do something odd", nil)

	if result.Success {
		t.Fatal("expected failure on a non-JSON response")
	}
	if result.Plan["summary"] != "Five days in Paris" {
		t.Fatalf("prior plan should be returned untouched: %v", result.Plan["summary"])
	}
	if result.Message == "" {
		t.Fatal("expected a conversational message on failure")
	}
}

func TestApplyEditInvalidMergedPlanRejected(t *testing.T) {
	// The model wipes out the itinerary's day numbering.
	patch := response_models.RawPlan{
		"itinerary": []interface{}{
			map[string]interface{}{"date": "2025-06-01", "day_number": float64(7)},
		},
	}
	llm := &fakePlannerClient{response: mustJSON(t, patch)}
	service := NewPatchService(llm)

	result := service.ApplyEdit(context.Background(), basePlan(), "break the days", nil)
	if result.Success {
		t.Fatal("expected the structurally broken merge to be rejected")
	}
	if result.Plan["summary"] != "Five days in Paris" {
		t.Fatal("prior plan should survive a rejected edit")
	}
}

func TestApplyEditTruncatesHistory(t *testing.T) {
	patch := basePlan()
	llm := &fakePlannerClient{response: mustJSON(t, patch)}
	service := NewPatchService(llm)

	history := make([]utils.ChatMessage, 10)
	for i := range history {
		history[i] = utils.ChatMessage{Role: "user", Content: "older message"}
	}
	history[9].Content = "newest message"

	result := service.ApplyEdit(context.Background(), basePlan(), "final request", history)
	if !result.Success {
		t.Fatalf("edit failed: %s", result.Message)
	}

	// Plan context + ack + 6 history turns + current message.
	if len(llm.messages) != 9 {
		t.Fatalf("expected 9 messages, got %d", len(llm.messages))
	}
	if llm.messages[7].Content != "newest message" {
		t.Fatalf("history not truncated from the tail: %+v", llm.messages[7])
	}
	if llm.messages[8].Content != "final request" {
		t.Fatalf("current message must come last: %+v", llm.messages[8])
	}
}

func TestApplyEditLLMErrorKeepsPriorPlan(t *testing.T) {
	llm := &fakePlannerClient{err: context.DeadlineExceeded}
	service := NewPatchService(llm)

	current := basePlan()
	result := service.ApplyEdit(context.Background(), current, "anything", nil)

	if result.Success {
		t.Fatal("expected failure when the model call errors")
	}
	if result.Plan["plan_type"] != "balanced" {
		t.Fatal("prior plan should be returned on model failure")
	}
}
