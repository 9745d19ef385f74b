package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const openAIProvider = "openai"

// OpenAIClient generates structured output with OpenAI chat completions in
// JSON-object mode.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAIClient builds a client for the given key and model. Extra options
// (base URL, retries) are passed through to the SDK.
func NewOpenAIClient(apiKey, model, language string, opts ...option.RequestOption) *OpenAIClient {
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIClient{client: &client, model: model, language: language}
}

func (c *OpenAIClient) GenerateStructured(ctx context.Context, prompt PromptID, input any) (json.RawMessage, error) {
	system, user, err := buildPrompt(prompt, input, c.language)
	if err != nil {
		return nil, err
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: openai.ChatModel(c.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{Provider: openAIProvider, StatusCode: apiErr.StatusCode, Err: err}
		}
		return nil, &UpstreamError{Provider: openAIProvider, Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}
	return extractObject(content)
}
