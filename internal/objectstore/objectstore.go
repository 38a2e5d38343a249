// Package objectstore пишет объекты в бакет S3; используется только диагностикой.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var ErrUnavailable = errors.New("object storage is not available")

type Store interface {
	Put(ctx context.Context, key string, body []byte) error
	Bucket() string
	Available() bool
}

type S3Store struct {
	client s3iface.S3API
	bucket string
}

func NewS3Store(sess client.ConfigProvider, bucket string) *S3Store {
	return NewS3StoreWithClient(s3.New(sess), bucket)
}

func NewS3StoreWithClient(api s3iface.S3API, bucket string) *S3Store {
	return &S3Store{client: api, bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("запись %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *S3Store) Bucket() string { return s.bucket }

func (s *S3Store) Available() bool { return true }

// Disabled используется, когда бакет не задан
type Disabled struct{}

func (Disabled) Put(context.Context, string, []byte) error { return ErrUnavailable }

func (Disabled) Bucket() string { return "" }

func (Disabled) Available() bool { return false }
