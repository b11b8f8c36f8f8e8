// Package openai provides an OpenAI-compatible Generator implementation.
// It works with any endpoint that speaks the chat completions protocol,
// selected through the base URL option.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/model"
	"github.com/voyagerlab/voyager/tool"
)

type options struct {
	APIKey        string
	BaseURL       string
	OpenAIOptions []openaiopt.RequestOption
}

// Option configures the Model.
type Option func(*options)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(opts *options) {
		opts.APIKey = key
	}
}

// WithBaseURL sets the base URL, for OpenAI-compatible providers.
func WithBaseURL(url string) Option {
	return func(opts *options) {
		opts.BaseURL = url
	}
}

// WithOpenAIOptions appends raw openai-go request options.
func WithOpenAIOptions(requestOpts ...openaiopt.RequestOption) Option {
	return func(opts *options) {
		opts.OpenAIOptions = append(opts.OpenAIOptions, requestOpts...)
	}
}

// Model implements model.Generator on the OpenAI chat completions API.
type Model struct {
	client openai.Client
	name   string
}

var _ model.Generator = (*Model)(nil)

// New creates a new OpenAI-like model.
func New(name string, opts ...Option) *Model {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	var clientOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.BaseURL))
	}
	clientOpts = append(clientOpts, o.OpenAIOptions...)
	return &Model{
		client: openai.NewClient(clientOpts...),
		name:   name,
	}
}

// Info implements the model.Generator interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// Generate implements the model.Generator interface.
func (m *Model) Generate(ctx context.Context, request *model.Request) (*model.Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}

	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: convertMessages(request.Messages),
		Tools:    convertTools(request.Tools),
	}
	if request.MaxTokens != nil {
		// MaxTokens is deprecated and not compatible with o-series models.
		chatRequest.MaxCompletionTokens = openai.Int(int64(*request.MaxTokens))
	}
	if request.Temperature != nil {
		chatRequest.Temperature = openai.Float(*request.Temperature)
	}

	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest)
	if err != nil {
		return &model.Response{
			Model: m.name,
			Error: &model.ResponseError{
				Message: err.Error(),
				Type:    model.ErrorTypeAPIError,
			},
		}, nil
	}
	if len(chatCompletion.Choices) == 0 {
		return &model.Response{
			ID:    chatCompletion.ID,
			Model: chatCompletion.Model,
			Error: &model.ResponseError{
				Message: "completion returned no choices",
				Type:    model.ErrorTypeAPIError,
			},
		}, nil
	}

	choice := chatCompletion.Choices[0]
	response := &model.Response{
		ID:    chatCompletion.ID,
		Model: chatCompletion.Model,
		Message: model.Message{
			Role:    model.RoleAssistant,
			Content: choice.Message.Content,
		},
	}
	for j, toolCall := range choice.Message.ToolCalls {
		synthesizedID := toolCall.ID
		if synthesizedID == "" {
			// Synthesize an ID for providers that omit it.
			synthesizedID = fmt.Sprintf("auto_call_%d", j)
		}
		response.Message.ToolCalls = append(response.Message.ToolCalls, model.ToolCall{
			ID:   synthesizedID,
			Type: string(toolCall.Type),
			Function: model.FunctionDefinitionParam{
				Name:      toolCall.Function.Name,
				Arguments: []byte(toolCall.Function.Arguments),
			},
		})
	}
	if chatCompletion.Usage.PromptTokens > 0 || chatCompletion.Usage.CompletionTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(chatCompletion.Usage.PromptTokens),
			CompletionTokens: int(chatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(chatCompletion.Usage.TotalTokens),
		}
	}
	return response, nil
}

// convertMessages converts our Message format to OpenAI's format.
func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		case model.RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{
				ToolCalls: convertToolCalls(msg.ToolCalls),
			}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result[i] = openai.ChatCompletionMessageParamUnion{OfAssistant: assistant}
		case model.RoleTool:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolID,
				},
			}
		default: // Default to user message if role is unknown.
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		}
	}
	return result
}

func convertToolCalls(toolCalls []model.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	var result []openai.ChatCompletionMessageToolCallParam
	for _, toolCall := range toolCalls {
		result = append(result, openai.ChatCompletionMessageToolCallParam{
			ID: toolCall.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      toolCall.Function.Name,
				Arguments: string(toolCall.Function.Arguments),
			},
		})
	}
	return result
}

func convertTools(tools map[string]tool.Tool) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, t := range tools {
		declaration := t.Declaration()
		// Round-trip the schema through JSON to map it to OpenAI's format.
		schemaBytes, err := json.Marshal(declaration.InputSchema)
		if err != nil {
			log.Errorf("failed to marshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		var parameters shared.FunctionParameters
		if err := json.Unmarshal(schemaBytes, &parameters); err != nil {
			log.Errorf("failed to unmarshal tool schema for %s: %v", declaration.Name, err)
			continue
		}
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        declaration.Name,
				Description: openai.String(declaration.Description),
				Parameters:  parameters,
			},
		})
	}
	return result
}
