package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoBucket is returned when S3 export is requested without a bucket.
var ErrNoBucket = errors.New("s3 bucket not set")

// S3API is the subset of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options selects the bucket and endpoint for S3Putter.
type S3Options struct {
	Bucket       string
	Region       string
	Endpoint     string // for S3-compatible stores such as MinIO
	Prefix       string
	UsePathStyle bool
}

// S3Putter uploads objects to a single bucket.
type S3Putter struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Putter builds an S3 client from the default AWS credential chain.
func NewS3Putter(ctx context.Context, opts S3Options) (*S3Putter, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return NewS3PutterWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewS3PutterWithClient wraps an existing client.
func NewS3PutterWithClient(client S3API, bucket, prefix string) *S3Putter {
	return &S3Putter{client: client, bucket: bucket, prefix: prefix}
}

// Put implements ObjectPutter. The returned location is an s3:// URI.
func (p *S3Putter) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key = p.prefix + key
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("uploading to s3://%s/%s: %w", p.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}
