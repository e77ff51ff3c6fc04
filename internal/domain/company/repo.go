package company

import "context"

type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	// GetByName matches the stored name exactly.
	GetByName(ctx context.Context, name string) (*Company, error)
	// GetByKey matches NormalizeName(stored name) against key.
	GetByKey(ctx context.Context, key string) (*Company, error)
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Company, int, error)
}
