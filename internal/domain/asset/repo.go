package asset

import "context"

type Repository interface {
	CreateHeader(ctx context.Context, h *Header) error
	GetHeader(ctx context.Context, id int64) (*Header, error)
	// LatestHeader returns the most recent upload, or db.ErrNotFound.
	LatestHeader(ctx context.Context) (*Header, error)
	ListHeaders(ctx context.Context, limit, offset int) ([]*Header, int, error)
	DeleteHeader(ctx context.Context, id int64) error

	CreateSignature(ctx context.Context, s *Signature) error
	// LatestSignature returns the user's most recent upload, or db.ErrNotFound.
	LatestSignature(ctx context.Context, userID string) (*Signature, error)
}
