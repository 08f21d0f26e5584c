package diffmage

import "fmt"

// ModelConfig describes an evaluation/generation model.
type ModelConfig struct {
	Name        string // identifier passed to the API
	DisplayName string
	Description string
}

// SupportedModels returns the models this tool knows how to drive. The
// selected model is always passed explicitly to the components that need
// it; there is no process-wide default state.
func SupportedModels() []ModelConfig {
	return []ModelConfig{
		{
			Name:        "gemini-3-flash-preview",
			DisplayName: "Gemini 3 Flash",
			Description: "Fast with strong code understanding. Good for most use cases.",
		},
		{
			Name:        "gemini-3-pro-preview",
			DisplayName: "Gemini 3 Pro",
			Description: "Higher quality reasoning, slower and more expensive.",
		},
		{
			Name:        "gemini-2.5-flash",
			DisplayName: "Gemini 2.5 Flash",
			Description: "Previous generation fast model.",
		},
		{
			Name:        "gemini-2.5-flash-lite",
			DisplayName: "Gemini 2.5 Flash Lite",
			Description: "Cheapest option for large batch evaluations.",
		},
		{
			Name:        "gemini-2.5-pro",
			DisplayName: "Gemini 2.5 Pro",
			Description: "Previous generation reasoning model.",
		},
	}
}

// DefaultModel returns the recommended model.
func DefaultModel() ModelConfig {
	return SupportedModels()[0]
}

// ModelByName returns the config for a model identifier.
func ModelByName(name string) (ModelConfig, error) {
	for _, m := range SupportedModels() {
		if m.Name == name {
			return m, nil
		}
	}
	return ModelConfig{}, fmt.Errorf("model %q not found", name)
}
