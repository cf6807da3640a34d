package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/satriahrh/synapse-agent/domain"
)

// GeminiConfig selects the backend: the Gemini API when APIKey is set,
// Vertex AI (Project, Location) otherwise.
type GeminiConfig struct {
	Project  string
	Location string
	APIKey   string

	// BaseURL overrides the service endpoint.
	BaseURL string
}

type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	if cfg.APIKey != "" {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	} else {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// GenerateChat implements domain.Llm. The history is converted as is, no
// turn is dropped or merged.
func (g *GeminiClient) GenerateChat(ctx context.Context, modelID string, history []domain.Turn) (domain.ChatSession, error) {
	geminiHistory := make([]*genai.Content, len(history))
	for i, turn := range history {
		parts := make([]*genai.Part, len(turn.Parts))
		for j, p := range turn.Parts {
			parts[j] = genai.NewPartFromText(p.Text)
		}
		geminiHistory[i] = genai.NewContentFromParts(parts, genai.Role(turn.Role))
	}

	chat, err := g.client.Chats.Create(ctx, modelID, nil, geminiHistory)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &GeminiChatSession{chat: chat}, nil
}

type GeminiChatSession struct {
	chat *genai.Chat
}

// SendMessage implements domain.ChatSession.
func (g *GeminiChatSession) SendMessage(ctx context.Context, prompt string) (*domain.ModelResponse, error) {
	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	out := &domain.ModelResponse{}
	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		var content *domain.Turn
		if c.Content != nil {
			turn := fromContent(c.Content)
			content = &turn
		}
		out.Candidates = append(out.Candidates, domain.Candidate{Content: content})
	}
	return out, nil
}

// History implements domain.ChatSession with the comprehensive (uncurated)
// transcript.
func (g *GeminiChatSession) History() ([]domain.Turn, error) {
	contents := g.chat.History(false)
	history := make([]domain.Turn, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		history = append(history, fromContent(c))
	}
	return history, nil
}

func fromContent(c *genai.Content) domain.Turn {
	parts := make([]domain.Part, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p == nil {
			continue
		}
		parts = append(parts, domain.Part{Text: p.Text})
	}
	return domain.Turn{Role: domain.Role(c.Role), Parts: parts}
}
