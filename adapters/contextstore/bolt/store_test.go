package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/satriahrh/synapse-agent/domain"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "context.bolt")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, path
}

func TestReadMissingKey(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	blob, err := s.Read(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(blob.Turns()) != 0 {
		t.Fatalf("expected empty history, got %v", blob.History)
	}
}

func TestWriteThenReadAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)

	want := []domain.Turn{
		{Role: domain.UserRole, Parts: []domain.Part{{Text: "hello"}}},
		{Role: domain.ModelRole, Parts: []domain.Part{{Text: "hi there"}, {Text: "how can I help?"}}},
	}
	if err := s.Write(ctx, "doc", domain.ContextBlob{History: want}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Read(ctx, "doc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(want, got.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestLastWriterWins(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	defer s.Close()

	first := domain.ContextBlob{History: []domain.Turn{{Role: domain.UserRole, Parts: []domain.Part{{Text: "a"}}}}}
	second := domain.ContextBlob{History: []domain.Turn{{Role: domain.UserRole, Parts: []domain.Part{{Text: "b"}}}}}
	_ = s.Write(ctx, "doc", first)
	_ = s.Write(ctx, "doc", second)

	got, _ := s.Read(ctx, "doc")
	if diff := cmp.Diff(second.History, got.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}
