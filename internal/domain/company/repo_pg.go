package company

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

const companyCols = `id, name, street, district, state, postcode, chemical_hazards, created_at, updated_at`

// nameKeySQL must stay equivalent to NormalizeName and to the expression of
// uq_company_name_key.
const nameKeySQL = `lower(btrim(name))`

func (r *repoPG) Create(ctx context.Context, c *Company) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO company (name, street, district, state, postcode, chemical_hazards)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Street, c.District, c.State, c.Postcode, c.ChemicalHazards,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("company create: %w", db.Classify(err))
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Company, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Company, error) {
	return r.getOne(ctx, `WHERE name = $1`, name)
}

func (r *repoPG) GetByKey(ctx context.Context, key string) (*Company, error) {
	return r.getOne(ctx, `WHERE `+nameKeySQL+` = $1`, key)
}

func (r *repoPG) getOne(ctx context.Context, where string, arg interface{}) (*Company, error) {
	c, err := scanCompany(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+companyCols+` FROM company `+where+` LIMIT 1`, arg))
	if err != nil {
		return nil, fmt.Errorf("company %v: %w", arg, db.Classify(err))
	}
	return c, nil
}

func (r *repoPG) Update(ctx context.Context, c *Company) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE company SET
			name=$2, street=$3, district=$4, state=$5, postcode=$6, chemical_hazards=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Street, c.District, c.State, c.Postcode, c.ChemicalHazards,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("company update %d: %w", c.ID, db.Classify(err))
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("company delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	q := db.Conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM company`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("company count: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+companyCols+` FROM company ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("company list: %w", err)
	}
	defer rows.Close()

	companies := []*Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.Name, &c.Street, &c.District, &c.State, &c.Postcode,
		&c.ChemicalHazards, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if c.ChemicalHazards == nil {
		c.ChemicalHazards = []string{}
	}
	return &c, nil
}
