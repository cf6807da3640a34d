package domain

import "context"

// Llm abstracts the chat/LLM provider.
type Llm interface {
	// GenerateChat opens a session for modelID seeded with history. The
	// session lives for one request only.
	GenerateChat(ctx context.Context, modelID string, history []Turn) (ChatSession, error)
}

type ChatSession interface {
	SendMessage(ctx context.Context, prompt string) (*ModelResponse, error)
	// History returns the full transcript, seed included, after the last send.
	History() ([]Turn, error)
}

// ModelResponse is the subset of the provider reply the service reads.
type ModelResponse struct {
	Candidates []Candidate
}

type Candidate struct {
	Content *Turn
}

// ReplyText returns the text of the first part of the first candidate. ok is
// false when the response carries no candidate, content or part.
func (r *ModelResponse) ReplyText() (text string, ok bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	return content.Parts[0].Text, true
}
