package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/utils/log"
)

// PersistTopic carries context blobs queued for a background write. The
// routing key is the context id.
const PersistTopic = "context.persist"

const DefaultModelTimeout = 30 * time.Second

type Options struct {
	ContextID    string
	ModelID      string
	ModelTimeout time.Duration

	// Async replies before the store write: the blob goes to the in-process
	// cache and is queued on Broker for the Persister.
	Async  bool
	Broker domain.MessageBroker
}

// Result is the outcome of one prompt. HasReply is false when the model
// response carried no candidate text.
type Result struct {
	Reply    string
	HasReply bool
}

// PromptService runs one read-seed-send-write exchange per prompt.
//
// Concurrent prompts are not serialized: two requests can read the same
// history and the later write drops the other's turn.
type PromptService struct {
	store  domain.ContextStore
	llm    domain.Llm
	broker domain.MessageBroker
	opts   Options

	// cache is set in async mode only and lives as long as the service.
	cache *contextCache
}

func NewPromptService(store domain.ContextStore, llm domain.Llm, opts Options) (*PromptService, error) {
	if opts.ContextID == "" {
		return nil, fmt.Errorf("context id is required")
	}
	if opts.ModelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = DefaultModelTimeout
	}

	s := &PromptService{store: store, llm: llm, opts: opts}
	if opts.Async {
		if opts.Broker == nil {
			return nil, fmt.Errorf("async persistence needs a message broker")
		}
		s.broker = opts.Broker
		s.cache = &contextCache{}
	}
	return s, nil
}

func (s *PromptService) HandlePrompt(ctx context.Context, prompt string) (Result, error) {
	if prompt == "" {
		return Result{}, domain.ErrPromptRequired
	}

	ctx = log.WithContextID(ctx, s.opts.ContextID)
	logger := log.WithCtx(ctx)
	logger.Info("received prompt", zap.Int("prompt_length", len(prompt)))
	logger.Debug("prompt text", zap.String("prompt", prompt))

	prior, err := s.acquire(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading context: %w", err)
	}

	resp, history, err := s.exchange(ctx, prior.Turns(), prompt)
	if err != nil {
		return Result{}, err
	}

	reply, ok := resp.ReplyText()
	if !ok {
		logger.Warn("model response has no candidate text")
	}

	if err := s.persist(ctx, domain.ContextBlob{History: history}); err != nil {
		return Result{}, fmt.Errorf("writing context: %w", err)
	}

	logger.Info("prompt handled", zap.Int("history_length", len(history)), zap.Bool("has_reply", ok))
	return Result{Reply: reply, HasReply: ok}, nil
}

// acquire returns the cached blob when there is one, the stored blob otherwise.
func (s *PromptService) acquire(ctx context.Context) (domain.ContextBlob, error) {
	if s.cache != nil {
		if blob, ok := s.cache.get(); ok {
			log.WithCtx(ctx).Debug("context served from cache")
			return blob, nil
		}
	}

	blob, err := s.store.Read(ctx, s.opts.ContextID)
	if err != nil {
		return domain.ContextBlob{}, err
	}
	if s.cache != nil {
		s.cache.set(blob)
	}
	return blob, nil
}

// exchange opens a session seeded with history, sends prompt and returns the
// reply together with the session's full transcript.
func (s *PromptService) exchange(ctx context.Context, history []domain.Turn, prompt string) (*domain.ModelResponse, []domain.Turn, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ModelTimeout)
	defer cancel()

	session, err := s.llm.GenerateChat(ctx, s.opts.ModelID, history)
	if err != nil {
		return nil, nil, fmt.Errorf("creating chat session: %w", err)
	}

	resp, err := session.SendMessage(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("sending prompt: %w", err)
	}

	updated, err := session.History()
	if err != nil {
		return nil, nil, fmt.Errorf("reading session history: %w", err)
	}
	return resp, updated, nil
}

func (s *PromptService) persist(ctx context.Context, blob domain.ContextBlob) error {
	if s.cache == nil {
		return s.store.Write(ctx, s.opts.ContextID, blob)
	}

	s.cache.set(blob)

	payload, err := json.Marshal(blob)
	if err != nil {
		log.WithCtx(ctx).Error("encoding context for background write", zap.Error(err))
		return nil
	}
	// The request may be canceled once the reply is out; the queueing must not be.
	if err := s.broker.Publish(context.WithoutCancel(ctx), PersistTopic, s.opts.ContextID, payload); err != nil {
		log.WithCtx(ctx).Error("queueing background context write", zap.Error(err))
	}
	return nil
}
