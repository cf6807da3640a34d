package memory

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/satriahrh/synapse-agent/domain"
)

func TestReadUnknownIsEmpty(t *testing.T) {
	s := NewStore()

	blob, err := s.Read(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(blob.History) != 0 {
		t.Fatalf("expected empty history, got %v", blob.History)
	}
}

func TestWriteIsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	blob := domain.ContextBlob{History: []domain.Turn{
		{Role: domain.UserRole, Parts: []domain.Part{{Text: "hi"}}},
	}}
	if err := s.Write(ctx, "doc", blob); err != nil {
		t.Fatalf("Write: %v", err)
	}
	blob.History[0].Parts[0].Text = "mutated"

	got, err := s.Read(ctx, "doc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []domain.Turn{{Role: domain.UserRole, Parts: []domain.Part{{Text: "hi"}}}}
	if diff := cmp.Diff(want, got.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}
