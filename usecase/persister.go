package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/utils/log"
)

const DefaultPersistTimeout = 15 * time.Second

// Persister writes context blobs queued on PersistTopic to the store. Failed
// writes are logged and dropped.
type Persister struct {
	store   domain.ContextStore
	broker  domain.MessageBroker
	timeout time.Duration
	done    chan struct{}
}

func NewPersister(store domain.ContextStore, broker domain.MessageBroker, timeout time.Duration) *Persister {
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	return &Persister{store: store, broker: broker, timeout: timeout, done: make(chan struct{})}
}

// Start subscribes to PersistTopic and consumes it in the background until
// the broker is closed (after draining what is buffered) or ctx is done.
// Start is called at most once.
func (p *Persister) Start(ctx context.Context) error {
	messages, err := p.broker.Subscribe(ctx, PersistTopic)
	if err != nil {
		close(p.done)
		return err
	}

	go func() {
		defer close(p.done)
		p.run(ctx, messages)
	}()
	return nil
}

// Wait blocks until the goroutine started by Start returns, or returns at
// once if Start failed. It may be called from any goroutine.
func (p *Persister) Wait() {
	<-p.done
}

func (p *Persister) run(ctx context.Context, messages <-chan domain.Message) {
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				log.WithCtx(ctx).Info("persister drained")
				return
			}
			p.write(msg)
		case <-ctx.Done():
			log.WithCtx(ctx).Warn("persister stopped before drain", zap.Error(ctx.Err()))
			return
		}
	}
}

func (p *Persister) write(msg domain.Message) {
	ctx := log.WithContextID(context.Background(), msg.RoutingKey)
	logger := log.WithCtx(ctx)

	var blob domain.ContextBlob
	if err := json.Unmarshal(msg.Payload, &blob); err != nil {
		logger.Error("decoding queued context", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.store.Write(ctx, msg.RoutingKey, blob); err != nil {
		logger.Error("background context write failed",
			zap.Error(err),
			zap.Duration("queued_for", time.Since(msg.Timestamp)))
		return
	}
	logger.Debug("background context write done", zap.Int("history_length", len(blob.History)))
}
