package advisor

import (
	"context"

	"github.com/go-faster/errors"
	"google.golang.org/genai"
)

var _ Backend = (*GeminiBackend)(nil)

// GeminiBackend talks to the Gemini API.
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a Gemini API client authenticated with apiKey.
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return &GeminiBackend{client: client}, nil
}

// GenerateText sends a single prompt and returns the response text.
func (b *GeminiBackend) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "generate content")
	}
	return resp.Text(), nil
}

// StartChat opens a chat with the given persona.
func (b *GeminiBackend) StartChat(ctx context.Context, model, systemInstruction string) (ChatSession, error) {
	chat, err := b.client.Chats.Create(ctx, model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create chat")
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) Send(ctx context.Context, message string) (string, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", errors.Wrap(err, "send message")
	}
	return resp.Text(), nil
}
