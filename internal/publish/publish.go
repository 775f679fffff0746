// Package publish uploads rendered pages to S3 or an S3 compatible store.
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vango-dev/webcell/internal/config"
	"github.com/vango-dev/webcell/internal/errors"
)

// ObjectPutter is the part of *s3.Client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient creates an S3 client for cfg. Credentials are read from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN when the
// request is signed.
func NewClient(cfg config.PublishConfig) *s3.Client {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, pkgerrors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}

// Publisher uploads pages under a key prefix.
type Publisher struct {
	client      ObjectPutter
	bucket      string
	prefix      string
	contentType string
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a publisher. It fails with W041 when no bucket is
// configured.
func New(client ObjectPutter, cfg config.PublishConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("W041").
			WithDetail("publish.bucket is empty").
			WithSuggestion("Set publish.bucket in webcell.yaml")
	}
	if logger == nil {
		logger = slog.Default()
	}
	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	return &Publisher{
		client:      client,
		bucket:      cfg.Bucket,
		prefix:      cfg.Prefix,
		contentType: contentType,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Key returns the object key a page called name is stored under.
func (p *Publisher) Key(name string) string {
	return p.prefix + path.Base(name)
}

// Publish uploads markup as name and returns the object key.
func (p *Publisher) Publish(ctx context.Context, name string, markup []byte) (string, error) {
	key := p.Key(name)
	ctx, span := otel.Tracer("webcell").Start(ctx, "webcell.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("webcell.bucket", p.bucket),
		attribute.String("webcell.key", key),
		attribute.Int("webcell.bytes", len(markup)),
	)

	id := uuid.NewString()
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(markup),
		ContentType: aws.String(p.contentType),
		Metadata: map[string]string{
			"publish-id":   id,
			"publish-time": p.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "put object failed")
		return "", errors.New("W041").
			WithDetailf("s3://%s/%s", p.bucket, key).
			Wrap(pkgerrors.Wrap(err, "put object"))
	}
	span.SetStatus(codes.Ok, "")

	p.logger.Info("published", "bucket", p.bucket, "key", key, "id", id, "bytes", len(markup))
	return key, nil
}
