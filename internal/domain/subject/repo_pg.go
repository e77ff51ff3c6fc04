package subject

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

const subjectCols = `id, name, ic_number, date_of_birth, gender, phone, email, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, s *Subject) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO subject (name, ic_number, date_of_birth, gender, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		s.Name, s.ICNumber, s.DateOfBirth, s.Gender, s.Phone, s.Email,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("subject create: %w", db.Classify(err))
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Subject, error) {
	s, err := scanSubject(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+subjectCols+` FROM subject WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("subject %d: %w", id, db.Classify(err))
	}
	return s, nil
}

func (r *repoPG) ListByIDs(ctx context.Context, ids []int64) ([]*Subject, error) {
	if len(ids) == 0 {
		return []*Subject{}, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+subjectCols+` FROM subject WHERE id = ANY($1) ORDER BY name, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("subject list by ids: %w", err)
	}
	return collectSubjects(rows)
}

func (r *repoPG) Update(ctx context.Context, s *Subject) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE subject SET
			name=$2, ic_number=$3, date_of_birth=$4, gender=$5, phone=$6, email=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.ICNumber, s.DateOfBirth, s.Gender, s.Phone, s.Email,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("subject update %d: %w", s.ID, db.Classify(err))
	}
	return nil
}

// Delete removes the subject. Occupational history and examination rows go
// with it through ON DELETE CASCADE.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM subject WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("subject delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subject delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Subject, int, error) {
	q := db.Conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM subject`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("subject count: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+subjectCols+` FROM subject ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("subject list: %w", err)
	}
	subjects, err := collectSubjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Subject, int, error) {
	q := db.Conn(ctx, r.pool)
	pattern := "%" + query + "%"
	const where = ` FROM subject WHERE name ILIKE $1 OR ic_number ILIKE $1`

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+where, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("subject search count: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+subjectCols+where+` ORDER BY name, id LIMIT $2 OFFSET $3`, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("subject search: %w", err)
	}
	subjects, err := collectSubjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

func scanSubject(row pgx.Row) (*Subject, error) {
	var s Subject
	if err := row.Scan(&s.ID, &s.Name, &s.ICNumber, &s.DateOfBirth, &s.Gender,
		&s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSubjects(rows pgx.Rows) ([]*Subject, error) {
	defer rows.Close()
	subjects := []*Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
