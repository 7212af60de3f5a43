// Package storage guarda os PDFs gerados no S3 ou num diretório local.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
)

// S3PutObjectAPI é o subconjunto do cliente S3 usado pelo upload.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage publica os relatórios num bucket.
type S3Storage struct {
	client        S3PutObjectAPI
	bucket        string
	region        string
	publicBaseURL string
}

var _ repository.StorageRepository = (*S3Storage)(nil)

// NewS3Storage cria o armazenamento S3. Sem publicBaseURL, a URL é a
// virtual-hosted do bucket.
func NewS3Storage(client S3PutObjectAPI, bucket, region, publicBaseURL string) *S3Storage {
	return &S3Storage{
		client:        client,
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, name, folder string) (entity.StoredObject, error) {
	key := ObjectKey(folder, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return entity.StoredObject{}, fmt.Errorf("uploading %s to bucket %s: %w", key, s.bucket, err)
	}

	return entity.StoredObject{
		URL:      s.publicURL(key),
		ObjectID: key,
		Size:     int64(len(data)),
	}, nil
}

func (s *S3Storage) publicURL(key string) string {
	base := s.publicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
	}
	return base + "/" + escapeKey(key)
}

// ObjectKey junta pasta e nome sem barras duplicadas.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
