package publish

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/webcell/internal/config"
	"github.com/vango-dev/webcell/internal/errors"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(data))
	return &s3.PutObjectOutput{}, nil
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(&fakePutter{}, config.PublishConfig{}, nil)
	if !errors.Is(err, "W041") {
		t.Errorf("New() error = %v, want W041", err)
	}
}

func TestPublish(t *testing.T) {
	fake := &fakePutter{}
	p, err := New(fake, config.PublishConfig{Bucket: "site", Prefix: "pages/"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	key, err := p.Publish(context.Background(), "out/index.html", []byte("<p>x</p>"))
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if key != "pages/index.html" {
		t.Errorf("key = %q", key)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject called %d times", len(fake.inputs))
	}

	in := fake.inputs[0]
	got := map[string]string{
		"bucket":      aws.ToString(in.Bucket),
		"key":         aws.ToString(in.Key),
		"contentType": aws.ToString(in.ContentType),
		"time":        in.Metadata["publish-time"],
		"body":        fake.bodies[0],
	}
	want := map[string]string{
		"bucket":      "site",
		"key":         "pages/index.html",
		"contentType": "text/html; charset=utf-8",
		"time":        "2024-05-01T12:00:00Z",
		"body":        "<p>x</p>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PutObject input mismatch (-want +got):\n%s", diff)
	}
	if in.Metadata["publish-id"] == "" {
		t.Error("publish-id metadata missing")
	}
}

func TestPublishError(t *testing.T) {
	fake := &fakePutter{err: fmt.Errorf("access denied")}
	p, err := New(fake, config.PublishConfig{Bucket: "site"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Publish(context.Background(), "a.html", []byte("x"))
	if !errors.Is(err, "W041") {
		t.Errorf("Publish() error = %v, want W041", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	if _, err := envCredentials(context.Background()); err == nil {
		t.Error("envCredentials() should fail without keys")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestNewClientEndpoint(t *testing.T) {
	client := NewClient(config.PublishConfig{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := client.Options()
	if opts.Region != "eu-west-1" || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" || !opts.UsePathStyle {
		t.Errorf("client options = region %q endpoint %q pathStyle %v", opts.Region, aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}
}
