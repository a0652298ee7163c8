// Package google adapts the Gemini API to model.ChatModel.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dshills/procdiagram-go/diagram/model"
)

// DefaultModel is used when NewChatModel gets an empty model name.
const DefaultModel = "gemini-1.5-flash"

// ChatModel implements model.ChatModel for Gemini.
//
// Call Close when done to release the underlying client.
type ChatModel struct {
	modelName string
	client    chatClient
	retry     model.Retrier
}

// chatRequest is a conversation in Gemini's shape: system instruction,
// prior turns, and the final user turn.
type chatRequest struct {
	system  string
	history []*genai.Content
	last    string
}

type chatClient interface {
	send(ctx context.Context, modelName string, req chatRequest) (*genai.GenerateContentResponse, error)
	Close() error
}

// NewChatModel creates a Gemini-backed ChatModel.
func NewChatModel(ctx context.Context, apiKey, modelName string) (*ChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("Google API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}
	return &ChatModel{
		modelName: modelName,
		client:    &sdkClient{client: client},
		retry:     model.DefaultRetrier("Google"),
	}, nil
}

// ModelName returns the configured model.
func (m *ChatModel) ModelName() string {
	return m.modelName
}

// Close releases the client.
func (m *ChatModel) Close() error {
	return m.client.Close()
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message) (model.ChatOut, error) {
	req, err := buildRequest(messages)
	if err != nil {
		return model.ChatOut{}, err
	}

	return m.retry.Do(ctx, func(ctx context.Context) (model.ChatOut, error) {
		resp, err := m.client.send(ctx, m.modelName, req)
		if err != nil {
			return model.ChatOut{}, mapError(err)
		}
		return parseResponse(resp)
	})
}

// buildRequest maps the conversation to Gemini roles. The last message
// must come from the user.
func buildRequest(messages []model.Message) (chatRequest, error) {
	system, rest := model.SplitSystem(messages)
	if len(rest) == 0 || rest[len(rest)-1].Role == model.RoleAssistant {
		return chatRequest{}, errors.New("conversation must end with a user message")
	}

	req := chatRequest{system: system, last: rest[len(rest)-1].Content}
	for _, msg := range rest[:len(rest)-1] {
		role := "user"
		if msg.Role == model.RoleAssistant {
			role = "model"
		}
		req.history = append(req.history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return req, nil
}

func parseResponse(resp *genai.GenerateContentResponse) (model.ChatOut, error) {
	if resp == nil {
		return model.ChatOut{}, errors.New("nil response from Google API")
	}

	out := model.ChatOut{}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out, errors.New("no candidates in Google API response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out.Text = sb.String()
	return out, nil
}

func mapError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "resource exhausted") || strings.Contains(msg, "quota") {
		return &model.RateLimitError{Provider: "Google", Err: err}
	}
	return err
}

type sdkClient struct {
	client *genai.Client
}

func (c *sdkClient) send(ctx context.Context, modelName string, req chatRequest) (*genai.GenerateContentResponse, error) {
	gm := c.client.GenerativeModel(modelName)
	if req.system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.system)}}
	}
	cs := gm.StartChat()
	cs.History = req.history
	return cs.SendMessage(ctx, genai.Text(req.last))
}

func (c *sdkClient) Close() error {
	return c.client.Close()
}
