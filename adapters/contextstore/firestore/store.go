package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/satriahrh/synapse-agent/domain"
)

type Store struct {
	client     *firestore.Client
	collection string
}

// NewStore creates a Firestore store. Each context blob is one document in
// collection, keyed by the context id.
func NewStore(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type partDoc struct {
	Text string `firestore:"text"`
}

type turnDoc struct {
	Role  string    `firestore:"role"`
	Parts []partDoc `firestore:"parts"`
}

type contextDoc struct {
	History   []turnDoc `firestore:"history"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func newContextDoc(blob domain.ContextBlob, updatedAt time.Time) contextDoc {
	doc := contextDoc{
		History:   make([]turnDoc, len(blob.History)),
		UpdatedAt: updatedAt,
	}
	for i, t := range blob.History {
		parts := make([]partDoc, len(t.Parts))
		for j, p := range t.Parts {
			parts[j] = partDoc{Text: p.Text}
		}
		doc.History[i] = turnDoc{Role: string(t.Role), Parts: parts}
	}
	return doc
}

// blob converts the document back. A document without history yields an
// empty blob.
func (d contextDoc) blob() domain.ContextBlob {
	if d.History == nil {
		return domain.ContextBlob{}
	}
	history := make([]domain.Turn, len(d.History))
	for i, t := range d.History {
		parts := make([]domain.Part, len(t.Parts))
		for j, p := range t.Parts {
			parts[j] = domain.Part{Text: p.Text}
		}
		history[i] = domain.Turn{Role: domain.Role(t.Role), Parts: parts}
	}
	return domain.ContextBlob{History: history}
}

func (s *Store) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(id)
}

// Read returns an empty blob when the document does not exist yet.
func (s *Store) Read(ctx context.Context, id string) (domain.ContextBlob, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ContextBlob{}, nil
		}
		return domain.ContextBlob{}, fmt.Errorf("firestore Read: %w", err)
	}

	var doc contextDoc
	if err := snap.DataTo(&doc); err != nil {
		return domain.ContextBlob{}, fmt.Errorf("firestore Read decode: %w", err)
	}

	return doc.blob(), nil
}

// Write overwrites the whole document.
func (s *Store) Write(ctx context.Context, id string, blob domain.ContextBlob) error {
	doc := newContextDoc(blob, time.Now().UTC())
	if _, err := s.doc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Write: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
