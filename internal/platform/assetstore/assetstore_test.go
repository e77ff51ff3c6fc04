package assetstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ---------------------------------------------------------------------------
// Shared behaviour
// ---------------------------------------------------------------------------

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Put(ctx, "headers/letterhead.png", "image/png", []byte("png-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := ReadAll(ctx, store, "headers/letterhead.png")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("expected png-bytes, got %q", data)
	}

	if err := store.Put(ctx, "headers/letterhead.png", "image/png", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ = ReadAll(ctx, store, "headers/letterhead.png")
	if string(data) != "v2" {
		t.Errorf("expected overwritten content v2, got %q", data)
	}

	if err := store.Delete(ctx, "headers/letterhead.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "headers/letterhead.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Put(ctx, "../escape.png", "image/png", []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFSStore(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	exerciseStore(t, store)
}

func TestFSStore_DeleteMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if err := store.Delete(context.Background(), "nope.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_CopiesInput(t *testing.T) {
	store := NewMemoryStore()
	buf := []byte("original")
	_ = store.Put(context.Background(), "sig.png", "image/png", buf)
	buf[0] = 'X'

	data, _ := ReadAll(context.Background(), store, "sig.png")
	if string(data) != "original" {
		t.Errorf("expected stored copy to be unaffected, got %q", data)
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"a.png", "headers/2024/a.jpg", "sig_1-2.jpeg"}
	invalid := []string{"", "/abs.png", "../x.png", "a/../../b", "dir/", ".hidden"}

	for _, k := range valid {
		if err := ValidateKey(k); err != nil {
			t.Errorf("ValidateKey(%q) unexpected error: %v", k, err)
		}
	}
	for _, k := range invalid {
		if err := ValidateKey(k); err == nil {
			t.Errorf("ValidateKey(%q) expected error", k)
		}
	}
}

// ---------------------------------------------------------------------------
// S3 backend against a fake client
// ---------------------------------------------------------------------------

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	lastACL types.ObjectCannedACL
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.lastACL = in.ACL
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: make(map[string][]byte)}
	store := newS3Store(fake, "clinic-assets", "assets")
	ctx := context.Background()

	if err := store.Put(ctx, "sig.png", "image/png", []byte("sig")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["clinic-assets/assets/sig.png"]; !ok {
		t.Errorf("expected object under prefix, got keys %v", fake.objects)
	}
	if fake.lastACL != types.ObjectCannedACLPrivate {
		t.Errorf("expected private ACL, got %q", fake.lastACL)
	}

	data, err := ReadAll(ctx, store, "sig.png")
	if err != nil || string(data) != "sig" {
		t.Fatalf("ReadAll = %q, %v", data, err)
	}

	if err := store.Delete(ctx, "sig.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sig.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from NoSuchKey, got %v", err)
	}
}
