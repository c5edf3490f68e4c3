package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// ChatMessage is one turn of conversation context passed to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PlannerClientInterface is the structured-generation contract used by the
// drafter and the patch engine. CompleteJSON returns the raw text of a
// JSON-shaped completion; callers own parsing and validation.
type PlannerClientInterface interface {
	CompleteJSON(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error)
	Close() error
}

// OpenAIPlannerClient implements PlannerClientInterface using the OpenAI
// chat completions API. A custom base URL turns it into a DeepSeek client,
// which speaks the same protocol.
type OpenAIPlannerClient struct {
	client  *openai.Client
	model   string
	useJSON bool
}

func NewOpenAIPlannerClient(apiKey, model, baseURL string) *OpenAIPlannerClient {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	cfg := openai.DefaultConfig(apiKey)
	useJSON := true
	if baseURL != "" {
		// DeepSeek and other compatible providers do not all support the
		// response_format parameter.
		cfg.BaseURL = baseURL
		useJSON = false
	}

	return &OpenAIPlannerClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		useJSON: useJSON,
	}
}

func (c *OpenAIPlannerClient) CompleteJSON(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chat = append(chat, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		chat = append(chat, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chat,
		Temperature: 0.7,
	}
	if c.useJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIPlannerClient) Close() error { return nil }

// GeminiPlannerClient implements PlannerClientInterface using Google's
// Gemini models with a forced JSON response MIME type.
type GeminiPlannerClient struct {
	client *genai.Client
	model  string
}

func NewGeminiPlannerClient(apiKey, model string) (*GeminiPlannerClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlannerClient{client: client, model: model}, nil
}

func (c *GeminiPlannerClient) CompleteJSON(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.7)
	m.SetTopP(0.5)
	m.SetTopK(20)

	// Gemini takes a single prompt here; flatten the conversation the same
	// way the role-tagged messages would read.
	var prompt strings.Builder
	prompt.WriteString(systemPrompt)
	prompt.WriteString("\n\n")
	for _, msg := range messages {
		prompt.WriteString(strings.ToUpper(msg.Role))
		prompt.WriteString(": ")
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n\n")
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no content generated")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	content = CleanJSONResponse(content)
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("gemini: response is not valid JSON")
	}

	return content, nil
}

func (c *GeminiPlannerClient) Close() error { return c.client.Close() }

// NewPlannerClient selects an implementation by provider name.
func NewPlannerClient(provider, apiKey, model string) (PlannerClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIPlannerClient(apiKey, model, ""), nil
	case "deepseek":
		if model == "" {
			model = "deepseek-chat"
		}
		return NewOpenAIPlannerClient(apiKey, model, "https://api.deepseek.com"), nil
	case "gemini":
		return NewGeminiPlannerClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported planner provider: %s. Use 'openai', 'deepseek' or 'gemini'", provider)
	}
}
