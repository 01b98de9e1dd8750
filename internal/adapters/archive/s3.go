package archive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type S3Uploader interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Archiver copies generated documents to a bucket under
// {prefix}/YYYY/MM/DD/{uuid}-{file name}.
type S3Archiver struct {
	Client S3Uploader
	Bucket string
	Prefix string

	Now func() time.Time
}

func NewS3Archiver(cli S3Uploader, bucket, prefix string) *S3Archiver {
	return &S3Archiver{Client: cli, Bucket: bucket, Prefix: prefix, Now: time.Now}
}

func (a *S3Archiver) Store(ctx context.Context, localPath string) (string, error) {
	if a == nil || a.Client == nil || a.Bucket == "" {
		return "", errors.New("archive not configured")
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	key := path.Join(a.Prefix, now().Format("2006/01/02"), uuid.NewString()+"-"+filepath.Base(localPath))
	info, err := a.Client.FPutObject(ctx, a.Bucket, key, localPath, minio.PutObjectOptions{ContentType: docxContentType})
	if err != nil {
		log.Printf("[ARCHIVE][ERR] s3 put: %v", err)
		return "", fmt.Errorf("s3 put: %w", err)
	}

	s3path := fmt.Sprintf("s3://%s/%s", a.Bucket, key)
	log.Printf("[ARCHIVE][OK] path=%q size=%d etag=%q", s3path, info.Size, info.ETag)
	return s3path, nil
}
