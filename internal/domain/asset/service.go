package asset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ohs/ohs/internal/platform/assetstore"
	"github.com/ohs/ohs/internal/platform/db"
)

var (
	// ErrInvalid marks an upload rejected before it is stored.
	ErrInvalid = errors.New("invalid asset")
	// ErrMissing means no usable asset exists. Documents omit the block.
	ErrMissing = errors.New("asset missing")
)

var (
	headerExtensions    = []string{"pdf", "jpg", "jpeg", "png"}
	signatureExtensions = []string{"jpg", "jpeg", "png"}
)

type Service struct {
	repo     Repository
	store    assetstore.Store
	maxBytes int64
}

func NewService(repo Repository, store assetstore.Store, maxBytes int64) *Service {
	return &Service{repo: repo, store: store, maxBytes: maxBytes}
}

// MaxBytes is the upload size limit.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// UploadHeader stores a new letterhead, which becomes the active header.
func (s *Service) UploadHeader(ctx context.Context, uploadedBy, filename string, data []byte) (*Header, error) {
	ext, err := s.check(filename, data, headerExtensions)
	if err != nil {
		return nil, err
	}
	key := "headers/" + uuid.NewString() + "." + ext
	if err := s.store.Put(ctx, key, contentTypes[ext], data); err != nil {
		return nil, fmt.Errorf("store header: %w", err)
	}

	h := &Header{StoredKey: key, OriginalFilename: filepath.Base(filename), Extension: ext, UploadedBy: uploadedBy}
	if err := s.repo.CreateHeader(ctx, h); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return h, nil
}

// UploadSignature stores a new signature image for userID.
func (s *Service) UploadSignature(ctx context.Context, userID, filename string, data []byte) (*Signature, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", ErrInvalid)
	}
	ext, err := s.check(filename, data, signatureExtensions)
	if err != nil {
		return nil, err
	}
	key := "signatures/" + uuid.NewString() + "." + ext
	if err := s.store.Put(ctx, key, contentTypes[ext], data); err != nil {
		return nil, fmt.Errorf("store signature: %w", err)
	}

	sig := &Signature{UserID: userID, StoredKey: key, OriginalFilename: filepath.Base(filename), Extension: ext}
	if err := s.repo.CreateSignature(ctx, sig); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	return sig, nil
}

// check validates size, extension and that the bytes look like the
// extension claims. It returns the normalized extension.
func (s *Service) check(filename string, data []byte, allowed []string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrInvalid)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalid, s.maxBytes)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: extension must be one of %s", ErrInvalid, strings.Join(allowed, ", "))
	}
	if sniffed := http.DetectContentType(data); sniffed != contentTypes[ext] {
		return "", fmt.Errorf("%w: content is %s, not %s", ErrInvalid, sniffed, ext)
	}
	return ext, nil
}

func (s *Service) ListHeaders(ctx context.Context, limit, offset int) ([]*Header, int, error) {
	return s.repo.ListHeaders(ctx, limit, offset)
}

// HeaderContent returns the bytes of header id for download.
func (s *Service) HeaderContent(ctx context.Context, id int64) (*Header, []byte, error) {
	h, err := s.repo.GetHeader(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := assetstore.ReadAll(ctx, s.store, h.StoredKey)
	if err != nil {
		return nil, nil, fmt.Errorf("header %d content: %w", id, err)
	}
	return h, data, nil
}

// DeleteHeader removes the metadata row first so the header stops being
// resolved even if the blob delete fails.
func (s *Service) DeleteHeader(ctx context.Context, id int64) error {
	h, err := s.repo.GetHeader(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteHeader(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, h.StoredKey); err != nil && !errors.Is(err, assetstore.ErrNotFound) {
		return fmt.Errorf("delete header content: %w", err)
	}
	return nil
}

// GetActiveHeaderAsset resolves the header for a document: requestedID when
// given, otherwise the most recent upload. ErrMissing when there is none or
// its bytes are gone; other errors are storage failures.
func (s *Service) GetActiveHeaderAsset(ctx context.Context, requestedID *int64) (*Content, error) {
	var (
		h   *Header
		err error
	)
	if requestedID != nil {
		h, err = s.repo.GetHeader(ctx, *requestedID)
	} else {
		h, err = s.repo.LatestHeader(ctx)
	}
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("header: %w", ErrMissing)
		}
		return nil, err
	}
	return s.load(ctx, h.ID, h.StoredKey, h.Extension)
}

// GetSignatureAsset resolves the most recent signature of userID.
func (s *Service) GetSignatureAsset(ctx context.Context, userID string) (*Content, error) {
	sig, err := s.repo.LatestSignature(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("signature for %s: %w", userID, ErrMissing)
		}
		return nil, err
	}
	return s.load(ctx, sig.ID, sig.StoredKey, sig.Extension)
}

func (s *Service) load(ctx context.Context, id int64, key, ext string) (*Content, error) {
	data, err := assetstore.ReadAll(ctx, s.store, key)
	if err != nil {
		if errors.Is(err, assetstore.ErrNotFound) {
			return nil, fmt.Errorf("asset %d content: %w", id, ErrMissing)
		}
		return nil, err
	}
	return &Content{ID: id, Extension: ext, Data: data}, nil
}
