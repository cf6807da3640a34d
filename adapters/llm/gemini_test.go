package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/satriahrh/synapse-agent/domain"
)

// fakeGemini answers generateContent calls with a fixed body and records the
// last request.
type fakeGemini struct {
	mu       sync.Mutex
	body     string
	lastPath string
	lastReq  map[string]any
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}
	f.lastPath = r.URL.Path
	raw, _ := io.ReadAll(r.Body)
	f.lastReq = nil
	_ = json.Unmarshal(raw, &f.lastReq)

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, fake *fakeGemini) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return c
}

func TestGeminiSessionRoundTrip(t *testing.T) {
	fake := &fakeGemini{body: `{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}]}`}
	c := newTestClient(t, fake)
	ctx := context.Background()

	seed := []domain.Turn{
		{Role: domain.UserRole, Parts: []domain.Part{{Text: "earlier question"}}},
		{Role: domain.ModelRole, Parts: []domain.Part{{Text: "earlier answer"}}},
	}
	session, err := c.GenerateChat(ctx, "gemini-test", seed)
	if err != nil {
		t.Fatalf("GenerateChat: %v", err)
	}

	resp, err := session.SendMessage(ctx, "ping")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	text, ok := resp.ReplyText()
	if !ok || text != "pong" {
		t.Fatalf("ReplyText = %q, %v", text, ok)
	}

	fake.mu.Lock()
	if !strings.Contains(fake.lastPath, "gemini-test") {
		t.Errorf("request path %q does not name the model", fake.lastPath)
	}
	contents, _ := fake.lastReq["contents"].([]any)
	fake.mu.Unlock()
	if len(contents) != 3 {
		t.Fatalf("sent %d contents, want seed + prompt = 3", len(contents))
	}

	history, err := session.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := append(append([]domain.Turn{}, seed...),
		domain.Turn{Role: domain.UserRole, Parts: []domain.Part{{Text: "ping"}}},
		domain.Turn{Role: domain.ModelRole, Parts: []domain.Part{{Text: "pong"}}},
	)
	if diff := cmp.Diff(want, history); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestMockLLM(t *testing.T) {
	ctx := context.Background()
	m := NewMockLLM()

	session, _ := m.GenerateChat(ctx, "any", nil)
	resp, _ := session.SendMessage(ctx, "hi")
	if text, ok := resp.ReplyText(); !ok || text != "(mock) hi" {
		t.Fatalf("ReplyText = %q, %v", text, ok)
	}
	history, _ := session.History()
	if len(history) != 2 || history[0].Role != domain.UserRole || history[1].Role != domain.ModelRole {
		t.Fatalf("unexpected history %v", history)
	}
}
