package asset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ohs/ohs/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const (
	headerCols    = `id, stored_key, original_filename, extension, uploaded_by, uploaded_at`
	signatureCols = `id, user_id, stored_key, original_filename, extension, uploaded_at`
)

func (r *repoPG) CreateHeader(ctx context.Context, h *Header) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO header_asset (stored_key, original_filename, extension, uploaded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at`,
		h.StoredKey, h.OriginalFilename, h.Extension, h.UploadedBy,
	).Scan(&h.ID, &h.UploadedAt)
	if err != nil {
		return fmt.Errorf("header create: %w", db.Classify(err))
	}
	return nil
}

func (r *repoPG) GetHeader(ctx context.Context, id int64) (*Header, error) {
	h, err := scanHeader(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+headerCols+` FROM header_asset WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("header %d: %w", id, db.Classify(err))
	}
	return h, nil
}

func (r *repoPG) LatestHeader(ctx context.Context) (*Header, error) {
	h, err := scanHeader(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+headerCols+` FROM header_asset ORDER BY uploaded_at DESC, id DESC LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", db.Classify(err))
	}
	return h, nil
}

func (r *repoPG) ListHeaders(ctx context.Context, limit, offset int) ([]*Header, int, error) {
	q := db.Conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM header_asset`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("header count: %w", err)
	}
	rows, err := q.Query(ctx,
		`SELECT `+headerCols+` FROM header_asset ORDER BY uploaded_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("header list: %w", err)
	}
	defer rows.Close()

	headers := []*Header{}
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan header: %w", err)
		}
		headers = append(headers, h)
	}
	return headers, total, rows.Err()
}

func (r *repoPG) DeleteHeader(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM header_asset WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("header delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("header delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func (r *repoPG) CreateSignature(ctx context.Context, s *Signature) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO signature_asset (user_id, stored_key, original_filename, extension)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at`,
		s.UserID, s.StoredKey, s.OriginalFilename, s.Extension,
	).Scan(&s.ID, &s.UploadedAt)
	if err != nil {
		return fmt.Errorf("signature create: %w", db.Classify(err))
	}
	return nil
}

func (r *repoPG) LatestSignature(ctx context.Context, userID string) (*Signature, error) {
	var s Signature
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+signatureCols+` FROM signature_asset WHERE user_id = $1 ORDER BY uploaded_at DESC, id DESC LIMIT 1`, userID,
	).Scan(&s.ID, &s.UserID, &s.StoredKey, &s.OriginalFilename, &s.Extension, &s.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("latest signature %s: %w", userID, db.Classify(err))
	}
	return &s, nil
}

func scanHeader(row pgx.Row) (*Header, error) {
	var h Header
	if err := row.Scan(&h.ID, &h.StoredKey, &h.OriginalFilename, &h.Extension, &h.UploadedBy, &h.UploadedAt); err != nil {
		return nil, err
	}
	return &h, nil
}
