package llm

import (
	"context"

	"github.com/satriahrh/synapse-agent/domain"
)

// MockLLM answers every prompt with an echo. Local development only.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateChat(_ context.Context, _ string, history []domain.Turn) (domain.ChatSession, error) {
	seed := make([]domain.Turn, len(history))
	copy(seed, history)
	return &mockSession{history: seed}, nil
}

type mockSession struct {
	history []domain.Turn
}

func (s *mockSession) SendMessage(_ context.Context, prompt string) (*domain.ModelResponse, error) {
	reply := domain.Turn{Role: domain.ModelRole, Parts: []domain.Part{{Text: "(mock) " + prompt}}}
	s.history = append(s.history,
		domain.Turn{Role: domain.UserRole, Parts: []domain.Part{{Text: prompt}}},
		reply,
	)
	return &domain.ModelResponse{Candidates: []domain.Candidate{{Content: &reply}}}, nil
}

func (s *mockSession) History() ([]domain.Turn, error) {
	return s.history, nil
}
