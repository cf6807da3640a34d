package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/satriahrh/synapse-agent/adapters/contextstore/bolt"
	"github.com/satriahrh/synapse-agent/adapters/contextstore/memory"
	"github.com/satriahrh/synapse-agent/adapters/llm"
	"github.com/satriahrh/synapse-agent/config"
	"github.com/satriahrh/synapse-agent/domain"
)

func TestNewContextStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closer, err := newContextStore(ctx, &config.Config{ContextStore: config.StoreMemory})
		if err != nil {
			t.Fatalf("newContextStore: %v", err)
		}
		defer closer.Close()
		if _, ok := store.(*memory.Store); !ok {
			t.Fatalf("store = %T, want *memory.Store", store)
		}
	})

	t.Run("bolt", func(t *testing.T) {
		cfg := &config.Config{
			ContextStore: config.StoreBolt,
			BoltPath:     filepath.Join(t.TempDir(), "ctx", "context.bolt"),
		}
		store, closer, err := newContextStore(ctx, cfg)
		if err != nil {
			t.Fatalf("newContextStore: %v", err)
		}
		defer closer.Close()
		if _, ok := store.(*bolt.Store); !ok {
			t.Fatalf("store = %T, want *bolt.Store", store)
		}

		blob := domain.ContextBlob{History: []domain.Turn{
			{Role: domain.UserRole, Parts: []domain.Part{{Text: "hello"}}},
		}}
		if err := store.Write(ctx, "doc", blob); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := store.Read(ctx, "doc")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if len(got.History) != 1 {
			t.Fatalf("history length = %d, want 1", len(got.History))
		}
	})
}

func TestNewLlmMock(t *testing.T) {
	model, err := newLlm(context.Background(), &config.Config{UseMockLLM: true})
	if err != nil {
		t.Fatalf("newLlm: %v", err)
	}
	if _, ok := model.(*llm.MockLLM); !ok {
		t.Fatalf("llm = %T, want *llm.MockLLM", model)
	}
}
