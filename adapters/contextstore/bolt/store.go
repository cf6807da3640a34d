package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/satriahrh/synapse-agent/domain"
)

var contextsBucket = []byte("contexts")

// Store persists context blobs as JSON values in a single BoltDB bucket keyed
// by document id.
type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating bolt directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(contextsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bolt bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Read returns an empty blob when the key has never been written.
func (s *Store) Read(ctx context.Context, id string) (domain.ContextBlob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ContextBlob{}, err
	}

	var blob domain.ContextBlob
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(contextsBucket).Get([]byte(id))
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, &blob)
	})
	if err != nil {
		return domain.ContextBlob{}, fmt.Errorf("bolt read %s: %w", id, err)
	}
	return blob, nil
}

func (s *Store) Write(ctx context.Context, id string, blob domain.ContextBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encoding context: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(contextsBucket).Put([]byte(id), data)
	})
	if err != nil {
		return fmt.Errorf("bolt write %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
