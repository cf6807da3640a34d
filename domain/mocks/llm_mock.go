package mocks

import (
	"context"
	"sync"

	"github.com/satriahrh/synapse-agent/domain"
)

// Llm is a domain.Llm whose sessions append the prompt and a reply to the
// seed, like a real chat.
type Llm struct {
	mu sync.Mutex

	// Reply is the model text; "(reply to <prompt>)" when empty.
	Reply string

	// Response, when set, is returned as is instead of a reply built from Reply.
	Response *domain.ModelResponse

	CreateErr error
	SendErr   error

	Calls    int
	ModelIDs []string
	Seeds    [][]domain.Turn
	Prompts  []string
}

func (m *Llm) GenerateChat(ctx context.Context, modelID string, history []domain.Turn) (domain.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.ModelIDs = append(m.ModelIDs, modelID)
	m.Seeds = append(m.Seeds, history)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	seed := make([]domain.Turn, len(history))
	copy(seed, history)
	return &session{llm: m, history: seed}, nil
}

// Snapshot returns the number of sessions opened and the seeds they got.
func (m *Llm) Snapshot() (calls int, seeds [][]domain.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls, append([][]domain.Turn(nil), m.Seeds...)
}

type session struct {
	llm     *Llm
	history []domain.Turn
}

func (s *session) SendMessage(ctx context.Context, prompt string) (*domain.ModelResponse, error) {
	s.llm.mu.Lock()
	defer s.llm.mu.Unlock()

	s.llm.Prompts = append(s.llm.Prompts, prompt)
	if s.llm.SendErr != nil {
		return nil, s.llm.SendErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := s.llm.Reply
	if text == "" {
		text = "(reply to " + prompt + ")"
	}
	reply := domain.Turn{Role: domain.ModelRole, Parts: []domain.Part{{Text: text}}}
	s.history = append(s.history,
		domain.Turn{Role: domain.UserRole, Parts: []domain.Part{{Text: prompt}}},
		reply,
	)

	if s.llm.Response != nil {
		return s.llm.Response, nil
	}
	return &domain.ModelResponse{Candidates: []domain.Candidate{{Content: &reply}}}, nil
}

func (s *session) History() ([]domain.Turn, error) {
	return s.history, nil
}
