package asset

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ohs/ohs/internal/platform/assetstore"
	"github.com/ohs/ohs/internal/platform/db"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR-test-image")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00-test-image")
	pdfBytes  = []byte("%PDF-1.4\n%test letterhead\n")
)

// -- Mock Asset Repository --

type mockRepo struct {
	nextID     int64
	headers    []*Header
	signatures []*Signature
	clock      time.Time
	failCreate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *mockRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *mockRepo) CreateHeader(_ context.Context, h *Header) error {
	if m.failCreate {
		return errors.New("connection refused")
	}
	m.nextID++
	h.ID = m.nextID
	h.UploadedAt = m.tick()
	m.headers = append(m.headers, h)
	return nil
}

func (m *mockRepo) GetHeader(_ context.Context, id int64) (*Header, error) {
	for _, h := range m.headers {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRepo) LatestHeader(_ context.Context) (*Header, error) {
	if len(m.headers) == 0 {
		return nil, db.ErrNotFound
	}
	return m.headers[len(m.headers)-1], nil
}

func (m *mockRepo) ListHeaders(_ context.Context, limit, offset int) ([]*Header, int, error) {
	out := append([]*Header(nil), m.headers...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (m *mockRepo) DeleteHeader(_ context.Context, id int64) error {
	for i, h := range m.headers {
		if h.ID == id {
			m.headers = append(m.headers[:i], m.headers[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *mockRepo) CreateSignature(_ context.Context, s *Signature) error {
	m.nextID++
	s.ID = m.nextID
	s.UploadedAt = m.tick()
	m.signatures = append(m.signatures, s)
	return nil
}

func (m *mockRepo) LatestSignature(_ context.Context, userID string) (*Signature, error) {
	for i := len(m.signatures) - 1; i >= 0; i-- {
		if m.signatures[i].UserID == userID {
			return m.signatures[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func newTestService() (*Service, *mockRepo, *assetstore.MemoryStore) {
	repo := newMockRepo()
	store := assetstore.NewMemoryStore()
	return NewService(repo, store, 1024), repo, store
}

func TestService_UploadHeader(t *testing.T) {
	svc, _, store := newTestService()
	h, err := svc.UploadHeader(context.Background(), "dr-tan", "Letterhead.PNG", pngBytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Extension != "png" || h.UploadedBy != "dr-tan" || h.OriginalFilename != "Letterhead.PNG" {
		t.Errorf("unexpected header: %+v", h)
	}
	if !strings.HasPrefix(h.StoredKey, "headers/") || !strings.HasSuffix(h.StoredKey, ".png") {
		t.Errorf("unexpected stored key %q", h.StoredKey)
	}
	if _, err := assetstore.ReadAll(context.Background(), store, h.StoredKey); err != nil {
		t.Errorf("expected bytes in store: %v", err)
	}
}

func TestService_UploadValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)

	tests := []struct {
		name   string
		upload func() error
	}{
		{"empty", func() error { _, err := svc.UploadHeader(ctx, "u", "a.png", nil); return err }},
		{"too large", func() error { _, err := svc.UploadHeader(ctx, "u", "a.png", big); return err }},
		{"bad extension", func() error { _, err := svc.UploadHeader(ctx, "u", "a.gif", pngBytes); return err }},
		{"content mismatch", func() error { _, err := svc.UploadHeader(ctx, "u", "a.png", jpegBytes); return err }},
		{"pdf signature", func() error { _, err := svc.UploadSignature(ctx, "u", "sig.pdf", pdfBytes); return err }},
		{"anonymous signature", func() error { _, err := svc.UploadSignature(ctx, "", "sig.png", pngBytes); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.upload(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

type recordingStore struct {
	*assetstore.MemoryStore
	deleted []string
}

func (r *recordingStore) Delete(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return r.MemoryStore.Delete(ctx, key)
}

func TestService_UploadHeader_RemovesBlobWhenMetadataFails(t *testing.T) {
	repo := newMockRepo()
	repo.failCreate = true
	store := &recordingStore{MemoryStore: assetstore.NewMemoryStore()}
	svc := NewService(repo, store, 1024)

	if _, err := svc.UploadHeader(context.Background(), "u", "head.pdf", pdfBytes); err == nil {
		t.Fatal("expected error")
	}
	if len(store.deleted) != 1 || !strings.HasPrefix(store.deleted[0], "headers/") {
		t.Errorf("expected the orphaned blob to be deleted, got %v", store.deleted)
	}
}

func TestService_GetActiveHeaderAsset(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.GetActiveHeaderAsset(ctx, nil); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing with no uploads, got %v", err)
	}

	first, _ := svc.UploadHeader(ctx, "u", "old.pdf", pdfBytes)
	second, _ := svc.UploadHeader(ctx, "u", "new.png", pngBytes)

	active, err := svc.GetActiveHeaderAsset(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.ID != second.ID || active.Extension != "png" || active.ContentType() != "image/png" {
		t.Errorf("expected latest header, got %+v", active)
	}

	requested, err := svc.GetActiveHeaderAsset(ctx, &first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested.ID != first.ID || string(requested.Data) != string(pdfBytes) {
		t.Errorf("expected requested header, got id %d", requested.ID)
	}

	unknown := int64(99)
	if _, err := svc.GetActiveHeaderAsset(ctx, &unknown); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing for unknown id, got %v", err)
	}
}

func TestService_GetActiveHeaderAsset_BlobGone(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()
	h, _ := svc.UploadHeader(ctx, "u", "head.png", pngBytes)
	store.Delete(ctx, h.StoredKey)

	if _, err := svc.GetActiveHeaderAsset(ctx, nil); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing when content is gone, got %v", err)
	}
}

func TestService_GetSignatureAsset(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.GetSignatureAsset(ctx, "dr-tan"); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	svc.UploadSignature(ctx, "dr-tan", "sig1.jpg", jpegBytes)
	latest, _ := svc.UploadSignature(ctx, "dr-tan", "sig2.png", pngBytes)
	svc.UploadSignature(ctx, "dr-lee", "sig.png", pngBytes)

	got, err := svc.GetSignatureAsset(ctx, "dr-tan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != latest.ID || got.Extension != "png" {
		t.Errorf("expected latest signature of dr-tan, got %+v", got)
	}
}

func TestService_DeleteHeader(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()
	h, _ := svc.UploadHeader(ctx, "u", "head.png", pngBytes)

	if err := svc.DeleteHeader(ctx, h.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, h.StoredKey); !errors.Is(err, assetstore.ErrNotFound) {
		t.Errorf("expected content removed, got %v", err)
	}
	if err := svc.DeleteHeader(ctx, h.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
