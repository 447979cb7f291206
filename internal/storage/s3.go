package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3Store.
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
	MaxSize       int64
	Prefix        string
}

// S3Store uploads images to an S3-compatible bucket such as MinIO.
type S3Store struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
	maxSize       int64
	now           func() time.Time
}

// NewS3Store builds the AWS client from static credentials when given,
// falling back to the default credential chain otherwise.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}

	return &S3Store{
		client:        client,
		bucket:        opts.Bucket,
		prefix:        prefix,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
		maxSize:       maxSize,
		now:           time.Now,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, field string, fh *multipart.FileHeader) (string, error) {
	up, err := readImage(field, fh, s.maxSize, s.now())
	if err != nil {
		return "", err
	}

	key := s.prefix + "/" + up.name
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          up.reader(),
		ContentType:   aws.String(up.contentType),
		ContentLength: aws.Int64(int64(len(up.data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a URL produced by Save. Foreign URLs
// are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	base := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, base) {
		return nil
	}
	key := strings.TrimPrefix(url, base)
	if !strings.HasPrefix(key, s.prefix+"/") {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
