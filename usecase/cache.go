package usecase

import (
	"sync"

	"github.com/satriahrh/synapse-agent/domain"
)

// contextCache holds the last blob read or written by this process. It is
// never invalidated; a restart is the only reset.
type contextCache struct {
	mu    sync.RWMutex
	blob  domain.ContextBlob
	valid bool
}

func (c *contextCache) get() (domain.ContextBlob, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return domain.ContextBlob{}, false
	}
	return c.blob.Clone(), true
}

func (c *contextCache) set(blob domain.ContextBlob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blob = blob.Clone()
	c.valid = true
}
