package openai

import (
	"book-companion-be/pkg/llm"
	"context"
	"fmt"
	"strings"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

type OpenAIProvider struct {
	Client    openaiclient.Client
	ModelName string
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName, baseURL string) *OpenAIProvider {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &OpenAIProvider{
		Client:    openaiclient.NewClient(opts...),
		ModelName: modelName,
	}
}

func (o *OpenAIProvider) buildParams(history []llm.Message, opts ...llm.Option) openaiclient.ChatCompletionNewParams {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			messages = append(messages, openaiclient.SystemMessage(msg.Content))
		case "assistant", "model":
			messages = append(messages, openaiclient.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openaiclient.UserMessage(msg.Content))
		}
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	params := openaiclient.ChatCompletionNewParams{
		Model:       openaiclient.ChatModel(model),
		Messages:    messages,
		Temperature: openaiclient.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openaiclient.Int(int64(options.MaxTokens))
	}
	return params
}

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	completion, err := o.Client.Chat.Completions.New(ctx, o.buildParams(history, opts...))
	if err != nil {
		return "", fmt.Errorf("openai chat request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai chat returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string), opts ...llm.Option) (string, error) {
	stream := o.Client.Chat.Completions.NewStreaming(ctx, o.buildParams(history, opts...))
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		token := chunk.Choices[0].Delta.Content
		full.WriteString(token)
		if onDelta != nil {
			onDelta(token)
		}
	}
	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("openai stream failed: %w", err)
	}

	return full.String(), nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
