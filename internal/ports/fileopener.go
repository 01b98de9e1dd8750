package ports

import (
	"context"
	"io"
)

type Meta struct {
	Source      string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// FileOpener reads a document template from wherever it is configured to live.
type FileOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, Meta, error)
}
