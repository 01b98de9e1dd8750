package s3

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ConnectionInfo struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

type S3 struct {
	Client *minio.Client
	Bucket string
}

// endpoint strips a URL scheme from the endpoint, which minio expects as
// host[:port]. An https:// scheme turns TLS on.
func (info ConnectionInfo) endpoint() (string, bool) {
	ep, secure := strings.TrimSpace(info.Endpoint), info.UseSSL
	switch {
	case strings.HasPrefix(ep, "https://"):
		ep, secure = strings.TrimPrefix(ep, "https://"), true
	case strings.HasPrefix(ep, "http://"):
		ep = strings.TrimPrefix(ep, "http://")
	}
	return strings.TrimRight(ep, "/"), secure
}

func NewConnection(info ConnectionInfo) (*S3, error) {
	ep, secure := info.endpoint()
	client, err := minio.New(ep, &minio.Options{
		Creds:  credentials.NewStaticV4(info.AccessKey, info.SecretKey, ""),
		Secure: secure,
		Region: info.Region,
	})
	if err != nil {
		return nil, err
	}

	return &S3{Client: client, Bucket: info.Bucket}, nil
}

func (s *S3) EnsureBucket(ctx context.Context) error {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}
