package archive

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeUploader struct {
	bucket, key, file string
	err               error
}

func (f *fakeUploader) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.file = bucketName, objectName, filePath
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: 10}, f.err
}

func TestS3Archiver_Store(t *testing.T) {
	up := &fakeUploader{}
	a := NewS3Archiver(up, "documents", "generated")
	a.Now = func() time.Time { return time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC) }

	got, err := a.Store(context.Background(), "/out/Договор №101-ИП (Иванов Иван Иванович)_123456.docx")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if up.bucket != "documents" || up.file != "/out/Договор №101-ИП (Иванов Иван Иванович)_123456.docx" {
		t.Fatalf("unexpected upload: %+v", up)
	}
	if !strings.HasPrefix(up.key, "generated/2024/11/05/") || !strings.HasSuffix(up.key, "-Договор №101-ИП (Иванов Иван Иванович)_123456.docx") {
		t.Fatalf("unexpected key %q", up.key)
	}
	if got != "s3://documents/"+up.key {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestS3Archiver_errors(t *testing.T) {
	var a *S3Archiver
	if _, err := a.Store(context.Background(), "x.docx"); err == nil {
		t.Fatalf("expected error for nil archiver")
	}

	a = NewS3Archiver(&fakeUploader{err: errors.New("denied")}, "documents", "")
	if _, err := a.Store(context.Background(), "x.docx"); err == nil {
		t.Fatalf("expected upload error")
	}
}
