package factory

import (
	"book-companion-be/pkg/llm"
	"book-companion-be/pkg/llm/ollama"
	"book-companion-be/pkg/llm/openai"
	"fmt"
)

func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if modelName == "" {
			modelName = "gpt-4o-mini" // Default
		}
		return openai.NewOpenAIProvider(apiKey, modelName, baseURL), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
