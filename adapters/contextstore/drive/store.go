package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/satriahrh/synapse-agent/domain"
)

// Store keeps the context blob as the media content of an existing Drive
// file. The file itself is created outside this service.
type Store struct {
	files *drive.FilesService
}

// NewStore builds a Drive client with the drive.file scope. Extra options are
// appended after the scope, so tests can point it at a fake endpoint.
func NewStore(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveFileScope)}, opts...)
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	return &Store{files: srv.Files}, nil
}

// Read downloads the file content. A zero-length file reads as an empty blob.
func (s *Store) Read(ctx context.Context, id string) (domain.ContextBlob, error) {
	resp, err := s.files.Get(id).Context(ctx).Download()
	if err != nil {
		return domain.ContextBlob{}, fmt.Errorf("drive download %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ContextBlob{}, fmt.Errorf("reading drive file %s: %w", id, err)
	}

	var blob domain.ContextBlob
	if len(bytes.TrimSpace(data)) == 0 {
		return blob, nil
	}
	if err := json.Unmarshal(data, &blob); err != nil {
		return domain.ContextBlob{}, fmt.Errorf("decoding drive file %s: %w", id, err)
	}
	return blob, nil
}

// Write replaces the file content with the JSON encoded blob.
func (s *Store) Write(ctx context.Context, id string, blob domain.ContextBlob) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encoding context: %w", err)
	}

	_, err = s.files.Update(id, &drive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType("application/json")).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive update %s: %w", id, err)
	}
	return nil
}
