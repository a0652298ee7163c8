// Package anthropic adapts the Anthropic Messages API to model.ChatModel.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/procdiagram-go/diagram/model"
)

// DefaultModel is used when NewChatModel gets an empty model name.
const DefaultModel = "claude-3-5-sonnet-20241022"

// DefaultMaxTokens caps the reply length.
const DefaultMaxTokens = 4096

// ChatModel implements model.ChatModel for Anthropic.
//
// System messages are lifted out of the conversation into the request's
// system field, since the Messages API accepts only user and assistant
// turns.
type ChatModel struct {
	modelName string
	maxTokens int64
	client    messenger
	retry     model.Retrier
}

type messenger interface {
	send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// NewChatModel creates an Anthropic-backed ChatModel.
func NewChatModel(apiKey, modelName string) (*ChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ChatModel{
		modelName: modelName,
		maxTokens: DefaultMaxTokens,
		client:    &sdkClient{client: &client},
		retry:     model.DefaultRetrier("Anthropic"),
	}, nil
}

// ModelName returns the configured model.
func (m *ChatModel) ModelName() string {
	return m.modelName
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message) (model.ChatOut, error) {
	params, err := m.buildParams(messages)
	if err != nil {
		return model.ChatOut{}, err
	}

	return m.retry.Do(ctx, func(ctx context.Context) (model.ChatOut, error) {
		msg, err := m.client.send(ctx, params)
		if err != nil {
			return model.ChatOut{}, mapError(err)
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return model.ChatOut{
			Text:       sb.String(),
			TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		}, nil
	})
}

func (m *ChatModel) buildParams(messages []model.Message) (anthropic.MessageNewParams, error) {
	system, rest := model.SplitSystem(messages)
	if len(rest) == 0 {
		return anthropic.MessageNewParams{}, errors.New("at least one user message is required")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.modelName),
		MaxTokens: m.maxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(rest)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, msg := range rest {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == model.RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	return params, nil
}

func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return model.HTTPError("Anthropic", apiErr.StatusCode, err)
	}
	return err
}

type sdkClient struct {
	client *anthropic.Client
}

func (c *sdkClient) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return c.client.Messages.New(ctx, params)
}
