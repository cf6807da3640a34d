package domain

import "context"

// ContextStore reads and writes the persisted conversation by document id.
// There is no versioning: the last write wins.
type ContextStore interface {
	Read(ctx context.Context, id string) (ContextBlob, error)
	Write(ctx context.Context, id string, blob ContextBlob) error
}
