package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/satriahrh/synapse-agent/adapters/message_broker"
	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/domain/mocks"
)

func TestPersisterDrainsOnClose(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewContextStore()
	broker := message_broker.NewChannelMessageBroker(10)

	p := NewPersister(store, broker, time.Second)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	payloads := []string{
		`{"history":[{"role":"user","parts":[{"text":"a"}]}]}`,
		`not json`,
		`{"history":[{"role":"user","parts":[{"text":"b"}]}]}`,
	}
	for _, pl := range payloads {
		if err := broker.Publish(ctx, PersistTopic, "doc", []byte(pl)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	_ = broker.Close()
	p.Wait()

	_, writes := store.Snapshot()
	if len(writes) != 2 {
		t.Fatalf("writes = %d, want 2 (malformed payload skipped)", len(writes))
	}
	want := []domain.Turn{turn(domain.UserRole, "b")}
	if diff := cmp.Diff(want, store.Blobs["doc"].History); diff != "" {
		t.Fatalf("final history mismatch (-want +got):\n%s", diff)
	}
}

func TestPersisterStopsOnContext(t *testing.T) {
	broker := message_broker.NewChannelMessageBroker(1)
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPersister(mocks.NewContextStore(), broker, 0)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() { p.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("persister did not stop after cancel")
	}
}

func TestPersisterWaitFromOtherGoroutines(t *testing.T) {
	broker := message_broker.NewChannelMessageBroker(1)
	p := NewPersister(mocks.NewContextStore(), broker, time.Second)

	waited := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			p.Wait()
			waited <- struct{}{}
		}()
	}

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_ = broker.Close()

	for i := 0; i < 2; i++ {
		select {
		case <-waited:
		case <-time.After(2 * time.Second):
			t.Fatal("Wait did not return after the broker closed")
		}
	}
}

func TestPersisterStartOnClosedBroker(t *testing.T) {
	broker := message_broker.NewChannelMessageBroker(1)
	_ = broker.Close()

	p := NewPersister(mocks.NewContextStore(), broker, time.Second)
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("expected error subscribing to a closed broker")
	}
	p.Wait()
}
