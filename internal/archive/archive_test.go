package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ArchiverWritesDatedKey(t *testing.T) {
	fake := &fakeS3{}
	a := NewS3Archiver(fake, "webhooks")
	a.now = func() time.Time { return time.Date(2026, 10, 18, 23, 0, 0, 0, time.FixedZone("x", -3*3600)) }

	require.NoError(t, a.Archive(context.Background(), "stripe", "evt_123", []byte(`{"id":"evt_123"}`)))

	assert.Equal(t, "webhooks", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "stripe/2026/10/19/evt_123.json", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))
	assert.JSONEq(t, `{"id":"evt_123"}`, string(fake.body))
}

func TestS3ArchiverWrapsError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	err := NewS3Archiver(fake, "webhooks").Archive(context.Background(), "stripe", "evt_1", nil)
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, err, "s3://webhooks/")
}

func TestNoopArchiver(t *testing.T) {
	assert.NoError(t, NoopArchiver{}.Archive(context.Background(), "stripe", "evt", []byte("{}")))
}

func TestNewS3ClientStaticCredentials(t *testing.T) {
	c, err := NewS3Client(context.Background(), S3Options{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
