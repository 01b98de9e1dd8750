package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"autocontract/internal/services/render"

	"github.com/minio/minio-go/v7"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	KindContract    = "contract"
	KindInvoice     = "invoice"
	KindInvoiceCard = "invoice_card"
)

var (
	ErrUnknownKind    = errors.New("unknown template kind")
	ErrReadOnlySource = errors.New("template location is read-only")
)

type S3Putter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store replaces the configured templates. Each kind is written back to the
// location it is read from: a local path or an s3:// object. http(s)
// locations cannot be written.
type Store struct {
	Locations map[string]string
	S3        S3Putter
}

func NewStore(locations map[string]string, s3c S3Putter) *Store {
	return &Store{Locations: locations, S3: s3c}
}

// Put checks that data is a docx template and stores it. It returns the
// location written and the placeholders the template references.
func (s *Store) Put(ctx context.Context, kind string, data []byte) (string, []string, error) {
	loc, ok := s.Locations[kind]
	if !ok || loc == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	keys, err := render.Scan(data)
	if err != nil {
		return "", nil, err
	}

	switch {
	case strings.HasPrefix(loc, "s3://"):
		if s.S3 == nil {
			return "", nil, errors.New("s3 not configured")
		}
		u, err := url.Parse(loc)
		if err != nil {
			return "", nil, err
		}
		key := strings.TrimPrefix(u.Path, "/")
		if _, err := s.S3.PutObject(ctx, u.Host, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: docxContentType}); err != nil {
			return "", nil, fmt.Errorf("s3 put %s: %w", loc, err)
		}

	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return "", nil, fmt.Errorf("%w: %s", ErrReadOnlySource, loc)

	default:
		if err := os.MkdirAll(filepath.Dir(loc), 0o755); err != nil {
			return "", nil, fmt.Errorf("create template dir: %w", err)
		}
		if err := render.WriteAtomic(loc, data); err != nil {
			return "", nil, err
		}
	}

	log.Printf("[TEMPLATES][PUT] kind=%s location=%q size=%d placeholders=%d", kind, loc, len(data), len(keys))
	return loc, keys, nil
}
