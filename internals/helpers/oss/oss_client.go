// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"englishku_backend/internals/configs"
)

// Storage is what features need from object storage. OSSService is the
// production implementation; MemoryStorage backs tests and local runs.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional, e.g. "englishku/"
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := normalizeEndpoint(configs.GetEnv("ALI_OSS_ENDPOINT"))
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	opts := []oss.ClientOption{oss.Timeout(10, 60)}
	if sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New("https://"+endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	log.Printf("[OSS] bucket=%s endpoint=%s prefix=%q", bucketName, endpoint, prefix)
	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     prefix,
	}, nil
}

func (s *OSSService) objectKey(key string) string {
	return s.Prefix + strings.TrimLeft(key, "/")
}

// Put uploads data under key (prefixed) and returns its public URL.
// Existing objects are overwritten, so stable keys like profileImages/{uid}
// always point at the latest upload.
func (s *OSSService) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	full := s.objectKey(key)
	if err := s.UploadStream(ctx, full, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}
	// cache-buster: the key is stable but the content changes
	return fmt.Sprintf("%s?v=%d", s.PublicURL(full), time.Now().Unix()), nil
}

func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.Bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=86400"),
	)
}

func (s *OSSService) Delete(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(s.objectKey(key), oss.WithContext(ctx))
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if base := configs.GetEnv("ALI_OSS_PUBLIC_BASE"); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, s.Endpoint, key)
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	ep = strings.TrimPrefix(ep, "https://")
	ep = strings.TrimPrefix(ep, "http://")
	return strings.TrimRight(ep, "/")
}
