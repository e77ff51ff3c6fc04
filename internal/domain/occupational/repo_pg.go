package occupational

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

const historyCols = `id, subject_id, employer_name, job_title, employment_duration,
	exposure_duration, chemical_exposure_incident, created_at`

func (r *repoPG) Create(ctx context.Context, h *History) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO occupational_history (subject_id, employer_name, job_title,
			employment_duration, exposure_duration, chemical_exposure_incident)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		h.SubjectID, h.EmployerName, h.JobTitle,
		h.EmploymentDuration, h.ExposureDuration, h.ChemicalExposureIncident,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("history create: %w", db.Classify(err))
	}
	return nil
}

func (r *repoPG) ListBySubject(ctx context.Context, subjectID int64) ([]*History, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+historyCols+` FROM occupational_history WHERE subject_id = $1 ORDER BY id DESC`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("history list subject %d: %w", subjectID, err)
	}
	return collectHistory(rows)
}

func (r *repoPG) Latest(ctx context.Context, subjectID int64) (*History, error) {
	h, err := scanHistory(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+historyCols+` FROM occupational_history WHERE subject_id = $1 ORDER BY id DESC LIMIT 1`, subjectID))
	if err != nil {
		return nil, fmt.Errorf("latest history subject %d: %w", subjectID, db.Classify(err))
	}
	return h, nil
}

// The latest entry is picked before the employer filter so a subject who has
// since moved to another employer is not counted.
func (r *repoPG) ListLatestByEmployerKey(ctx context.Context, key string) ([]*History, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		WITH latest AS (
			SELECT DISTINCT ON (subject_id) `+historyCols+`
			FROM occupational_history
			ORDER BY subject_id, id DESC
		)
		SELECT `+historyCols+` FROM latest
		WHERE lower(btrim(employer_name)) = $1
		ORDER BY subject_id`, key)
	if err != nil {
		return nil, fmt.Errorf("history list employer %q: %w", key, err)
	}
	return collectHistory(rows)
}

func (r *repoPG) ListByEmployerKey(ctx context.Context, key string) ([]*History, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+historyCols+` FROM occupational_history
		WHERE lower(btrim(employer_name)) = $1
		ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("history list all employer %q: %w", key, err)
	}
	return collectHistory(rows)
}

func (r *repoPG) Delete(ctx context.Context, subjectID, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM occupational_history WHERE id = $1 AND subject_id = $2`, id, subjectID)
	if err != nil {
		return fmt.Errorf("history delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("history delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func scanHistory(row pgx.Row) (*History, error) {
	var h History
	if err := row.Scan(&h.ID, &h.SubjectID, &h.EmployerName, &h.JobTitle, &h.EmploymentDuration,
		&h.ExposureDuration, &h.ChemicalExposureIncident, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHistory(rows pgx.Rows) ([]*History, error) {
	defer rows.Close()
	out := []*History{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
