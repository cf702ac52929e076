package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/factline/factline/internal/model"
)

// NewProvider creates an extractor provider based on configuration.
// An empty provider name disables extraction and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown extractor provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
// The API key comes from the environment when the config carries none.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	apiKey := modelConfig.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("FACTLINE_OPENAI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return Config{
		Provider:      modelConfig.Provider,
		Model:         modelConfig.Model,
		APIKey:        apiKey,
		BaseURL:       modelConfig.BaseURL,
		Timeout:       modelConfig.TimeoutSec,
		MaxAssertions: modelConfig.MaxAssertions,
	}
}
