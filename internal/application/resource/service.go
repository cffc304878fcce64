// Package resource handles uploaded files and receipt images: bytes go to
// object storage, the entity row keeps only the durable link and metadata.
package resource

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

// ObjectStorage is the storage surface the service needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// Service stores resource bytes and their entity rows together.
type Service struct {
	stores  *persistence.Registry
	objects ObjectStorage
	logger  *zap.Logger
}

// NewService creates a new resource Service
func NewService(stores *persistence.Registry, objects ObjectStorage, logger *zap.Logger) *Service {
	return &Service{stores: stores, objects: objects, logger: logger}
}

// UploadInput carries one multipart upload.
type UploadInput struct {
	Kind        ledger.EntityType // images or files
	Owner       string
	FileName    string
	ContentType string
	Data        []byte
	Metadata    json.RawMessage // extra row fields from the metadata part
}

// Upload writes the bytes to object storage and upserts the row carrying
// the durable link.
func (s *Service) Upload(ctx context.Context, in UploadInput) (any, error) {
	if in.Kind != ledger.TypeImages && in.Kind != ledger.TypeFiles {
		return nil, shared.ErrInvalidType
	}
	if in.FileName == "" || len(in.Data) == 0 {
		return nil, shared.NewDomainError("MISSING_FILE", "A non-empty file part is required")
	}

	key := string(in.Kind) + "/" + uuid.NewString() + "/" + sanitizeFileName(in.FileName)
	if err := s.objects.Upload(ctx, key, in.Data, in.ContentType); err != nil {
		return nil, err
	}

	row := map[string]any{}
	if len(in.Metadata) > 0 {
		if err := json.Unmarshal(in.Metadata, &row); err != nil {
			return nil, shared.ErrInvalidBody
		}
	}
	// Metadata may carry an id to replace an existing row; otherwise the
	// upload is a fresh row.
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	row["fileName"] = in.FileName
	row["fileType"] = in.ContentType
	row["fileLink"] = s.objects.ObjectURL(key)
	row["uploadedAt"] = time.Now().UTC().Format(time.RFC3339)
	if in.Kind == ledger.TypeFiles {
		row["fileSize"] = len(in.Data)
	}

	body, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	item, err := s.stores.Store(in.Kind).Upsert(ctx, in.Owner, body, []string{"id"})
	if err != nil {
		// The row is the source of truth; an orphaned object is cleaned up
		// rather than left dangling.
		if derr := s.objects.Delete(ctx, key); derr != nil {
			s.logger.Warn("failed to remove orphaned object", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}

	s.logger.Info("resource uploaded",
		zap.String("kind", string(in.Kind)),
		zap.String("key", key),
		zap.Int("size", len(in.Data)))
	return item, nil
}

// Delete removes the row and its stored object.
func (s *Service) Delete(ctx context.Context, kind ledger.EntityType, owner, id string) error {
	if kind != ledger.TypeImages && kind != ledger.TypeFiles {
		return shared.ErrInvalidType
	}
	store := s.stores.Store(kind)

	row, err := store.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	var link string
	switch r := row.(type) {
	case *ledger.Image:
		link = r.FileLink
	case *ledger.File:
		link = r.FileLink
	}

	if err := store.Delete(ctx, owner, id); err != nil {
		return err
	}

	if key := strings.TrimPrefix(link, s.objects.ObjectURL("")); key != "" && key != link {
		if err := s.objects.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete stored object", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// sanitizeFileName strips any path components and characters that do not
// belong in an object key.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
