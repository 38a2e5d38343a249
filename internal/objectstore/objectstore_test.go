package objectstore_test

import (
	"context"
	"errors"
	"io"
	"taskManager/internal/objectstore"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API

	bucket string
	key    string
	body   string
	err    error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.StringValue(in.Bucket)
	f.key = aws.StringValue(in.Key)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	api := &fakeS3{}
	store := objectstore.NewS3StoreWithClient(api, "diagnostics-bucket")

	require.NoError(t, store.Put(context.Background(), "diagnostics/probe.txt", []byte("hello")))

	assert.Equal(t, "diagnostics-bucket", api.bucket)
	assert.Equal(t, "diagnostics/probe.txt", api.key)
	assert.Equal(t, "hello", api.body)
	assert.True(t, store.Available())
	assert.Equal(t, "diagnostics-bucket", store.Bucket())
}

func TestS3Store_PutError(t *testing.T) {
	api := &fakeS3{err: errors.New("AccessDenied")}
	store := objectstore.NewS3StoreWithClient(api, "b")

	err := store.Put(context.Background(), "k", nil)
	assert.ErrorContains(t, err, "AccessDenied")
	assert.ErrorContains(t, err, "b/k")
}

func TestDisabled(t *testing.T) {
	var store objectstore.Store = objectstore.Disabled{}

	assert.False(t, store.Available())
	assert.ErrorIs(t, store.Put(context.Background(), "k", nil), objectstore.ErrUnavailable)
}
