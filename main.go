package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/adapters/contextstore/bolt"
	"github.com/satriahrh/synapse-agent/adapters/contextstore/drive"
	"github.com/satriahrh/synapse-agent/adapters/contextstore/firestore"
	"github.com/satriahrh/synapse-agent/adapters/contextstore/memory"
	"github.com/satriahrh/synapse-agent/adapters/hasher"
	httpadapter "github.com/satriahrh/synapse-agent/adapters/http"
	"github.com/satriahrh/synapse-agent/adapters/llm"
	"github.com/satriahrh/synapse-agent/adapters/message_broker"
	"github.com/satriahrh/synapse-agent/config"
	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/usecase"
	"github.com/satriahrh/synapse-agent/utils/log"
)

func main() {
	gotenv.Load()
	defer log.Sync()

	if err := run(); err != nil {
		log.With().Fatal("synapse agent stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, storeCloser, err := newContextStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer storeCloser.Close()

	model, err := newLlm(ctx, cfg)
	if err != nil {
		return err
	}

	opts := usecase.Options{
		ContextID:    cfg.ContextFileID,
		ModelID:      cfg.ModelID,
		ModelTimeout: cfg.ModelTimeout,
	}

	var persister *usecase.Persister
	var broker *message_broker.ChannelMessageBroker
	if cfg.PersistMode == config.PersistAsync {
		broker = message_broker.NewChannelMessageBroker(message_broker.DefaultCapacity)
		persister = usecase.NewPersister(store, broker, cfg.PersistTimeout)
		// Background writes must outlive the signal context so they can drain.
		if err := persister.Start(context.Background()); err != nil {
			return fmt.Errorf("starting persister: %w", err)
		}
		opts.Async = true
		opts.Broker = broker
	}

	svc, err := usecase.NewPromptService(store, model, opts)
	if err != nil {
		return err
	}

	e := httpadapter.NewServer(httpadapter.ServerConfig{
		AuthEnabled:  cfg.AuthEnabled,
		ServerAPIKey: cfg.ServerAPIKey,
		ClientID:     cfg.ClientID,
		ClientAPIKey: cfg.ClientAPIKey,
	}, httpadapter.NewPromptHandler(svc), hasher.New())

	log.With(
		zap.String("addr", cfg.Addr()),
		zap.String("context_store", cfg.ContextStore),
		zap.String("persist_mode", string(cfg.PersistMode)),
		zap.String("model", cfg.ModelID),
		zap.Bool("auth_enabled", cfg.AuthEnabled),
	).Info("synapse agent listening")

	serveErr := make(chan error, 1)
	go func() { serveErr <- e.Start(cfg.Addr()) }()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.With().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.With().Error("http shutdown", zap.Error(err))
	}

	if broker != nil {
		_ = broker.Close()
		persister.Wait()
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newContextStore(ctx context.Context, cfg *config.Config) (domain.ContextStore, io.Closer, error) {
	switch cfg.ContextStore {
	case config.StoreFirestore:
		s, err := firestore.NewStore(ctx, cfg.GCPProjectID, cfg.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StoreBolt:
		s, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StoreMemory:
		return memory.NewStore(), nopCloser{}, nil
	default:
		s, err := drive.NewStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	}
}

func newLlm(ctx context.Context, cfg *config.Config) (domain.Llm, error) {
	if cfg.UseMockLLM {
		log.With().Warn("using mock LLM")
		return llm.NewMockLLM(), nil
	}
	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		Project:  cfg.GCPProjectID,
		Location: cfg.GCPLocation,
		APIKey:   cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
