package opener

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"autocontract/internal/ports"
)

// CompoundOpener picks the opener by the location scheme: http(s)://, s3://
// or a plain filesystem path.
type CompoundOpener struct {
	File *FileOpener
	HTTP *HTTPOpener
	S3   *S3Opener
}

func NewCompoundOpener(fileOp *FileOpener, httpOp *HTTPOpener, s3Op *S3Opener) *CompoundOpener {
	return &CompoundOpener{
		File: fileOp,
		HTTP: httpOp,
		S3:   s3Op,
	}
}

func (c *CompoundOpener) Open(ctx context.Context, location string) (io.ReadCloser, ports.Meta, error) {
	fp := strings.TrimSpace(location)

	switch {
	case strings.HasPrefix(fp, "http://") || strings.HasPrefix(fp, "https://"):
		if c.HTTP == nil {
			return nil, ports.Meta{}, errors.New("http opener not configured")
		}
		return c.HTTP.Open(ctx, fp)

	case strings.HasPrefix(fp, "s3://"):
		if c.S3 == nil {
			return nil, ports.Meta{}, errors.New("s3 opener not configured")
		}
		bkt, key, err := parseS3URL(fp)
		if err != nil {
			return nil, ports.Meta{}, err
		}
		return c.S3.Open(ctx, bkt, key)

	default:
		if c.File == nil {
			return nil, ports.Meta{}, errors.New("file opener not configured")
		}
		return c.File.Open(ctx, fp)
	}
}

func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", errors.New("scheme must be s3")
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	key = path.Clean(key)
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", errors.New("empty bucket or key")
	}
	return bucket, key, nil
}
