package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"newsblog/internal/render"
)

var artifacts = []render.Artifact{
	{Name: "post.md", ContentType: "text/markdown; charset=utf-8", Data: []byte("# 제목")},
	{Name: "post.json", ContentType: "application/json", Data: []byte(`{"title":"제목"}`)},
}

func TestDir_Publish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	paths, err := NewDir(dir).Publish(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}

	data, err := os.ReadFile(filepath.Join(dir, "post.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# 제목" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestDir_PublishStaysInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewDir(dir).Publish(context.Background(), []render.Artifact{{Name: "../escape.md", Data: []byte("x")}})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(paths[0]) != dir {
		t.Errorf("artifact written outside the directory: %s", paths[0])
	}
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3_Publish(t *testing.T) {
	fake := &fakePutter{}
	locations, err := NewS3WithClient(fake, "blog-bucket", "/posts/").Publish(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(locations) != 2 || locations[0] != "s3://blog-bucket/posts/post.md" {
		t.Errorf("unexpected locations %v", locations)
	}
	if aws.ToString(fake.inputs[1].ContentType) != "application/json" {
		t.Errorf("unexpected content type %q", aws.ToString(fake.inputs[1].ContentType))
	}
	if aws.ToString(fake.inputs[0].Bucket) != "blog-bucket" {
		t.Errorf("unexpected bucket %q", aws.ToString(fake.inputs[0].Bucket))
	}
	if fake.bodies[0] != "# 제목" {
		t.Errorf("unexpected body %q", fake.bodies[0])
	}
}

func TestS3_PublishError(t *testing.T) {
	fake := &fakePutter{err: errors.New("access denied")}
	_, err := NewS3WithClient(fake, "b", "").Publish(context.Background(), artifacts)
	if err == nil {
		t.Fatal("expected an upload error")
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Error("expected an error without a bucket")
	}
}
