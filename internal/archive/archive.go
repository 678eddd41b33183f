package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
)

// Archiver stores raw webhook payloads for audit and replay.
type Archiver interface {
	Archive(ctx context.Context, source, eventID string, payload []byte) error
}

// PutObjectAPI is the subset of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
}

func NewS3Archiver(client PutObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: time.Now}
}

// Archive writes the payload under <source>/<yyyy>/<mm>/<dd>/<eventID>.json.
func (a *S3Archiver) Archive(ctx context.Context, source, eventID string, payload []byte) error {
	key := ObjectKey(source, eventID, a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archiving %s to s3://%s/%s: %w", eventID, a.bucket, key, err)
	}
	return nil
}

func ObjectKey(source, eventID string, at time.Time) string {
	return path.Join(source, at.UTC().Format("2006/01/02"), eventID+".json")
}

// NoopArchiver discards payloads. Used when no bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, string, string, []byte) error {
	return nil
}

// S3Options configures an S3-compatible endpoint.
type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a path-style client for S3-compatible storage.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip avoids signature errors with some S3-compatible services.
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
