package planner_fx

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"voyago/internal/api/controllers"
	"voyago/internal/providers"
	"voyago/internal/services"
	"voyago/pkg/utils"
)

var Module = fx.Provide(
	ProvidePlannerClient,
	ProvideDrafterService,
	ProvidePlannerService,
	ProvidePatchService,
	ProvidePlanController,
	ProvideSearchController,
)

// PlannerConfig holds configuration for the generative model client.
type PlannerConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvidePlannerClient creates the generative model client from environment
// variables. A missing key for the selected provider aborts startup: the
// service cannot produce plans without a model.
func ProvidePlannerClient(lc fx.Lifecycle) (utils.PlannerClientInterface, error) {
	config, err := getPlannerConfig()
	if err != nil {
		return nil, err
	}

	log.Printf("Initializing %s planner client with model: %s", config.Provider, config.Model)

	client, err := utils.NewPlannerClient(config.Provider, config.APIKey, config.Model)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(func() error {
		return client.Close()
	}))
	return client, nil
}

func ProvideDrafterService(llm utils.PlannerClientInterface) services.DrafterInterface {
	return services.NewDrafterService(llm)
}

func ProvidePlannerService(
	drafter services.DrafterInterface,
	flights providers.FlightsClientInterface,
	places providers.PlacesClientInterface,
	geocoding providers.GeocodingInterface,
) services.PlannerInterface {
	return services.NewPlannerService(drafter, flights, places, geocoding)
}

func ProvidePatchService(llm utils.PlannerClientInterface) services.PatchInterface {
	return services.NewPatchService(llm)
}

func ProvidePlanController(
	plannerService services.PlannerInterface,
	patchService services.PatchInterface,
	flights providers.FlightsClientInterface,
	places providers.PlacesClientInterface,
) *controllers.PlanController {
	return controllers.NewPlanController(plannerService, patchService, flights, places)
}

func ProvideSearchController(
	flights providers.FlightsClientInterface,
	hotels providers.HotelsClientInterface,
	places providers.PlacesClientInterface,
	geocoding providers.GeocodingInterface,
) *controllers.SearchController {
	return controllers.NewSearchController(flights, hotels, places, geocoding)
}

// getPlannerConfig reads configuration from environment variables.
func getPlannerConfig() (PlannerConfig, error) {
	provider := getEnvWithDefault("LLM_PROVIDER", "openai")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-3.5-turbo")
		if apiKey == "" {
			return PlannerConfig{}, fmt.Errorf("%w: OPENAI_API_KEY is required when using OpenAI provider", utils.ErrMissingCredential)
		}
	case "deepseek":
		apiKey = os.Getenv("DEEPSEEK_API_KEY")
		model = getEnvWithDefault("DEEPSEEK_MODEL", "deepseek-chat")
		if apiKey == "" {
			return PlannerConfig{}, fmt.Errorf("%w: DEEPSEEK_API_KEY is required when using DeepSeek provider", utils.ErrMissingCredential)
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			return PlannerConfig{}, fmt.Errorf("%w: GEMINI_API_KEY is required when using Gemini provider", utils.ErrMissingCredential)
		}
	}

	return PlannerConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}, nil
}

// getEnvWithDefault returns environment variable or default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
