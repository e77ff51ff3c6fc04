package subject

import "context"

type Repository interface {
	Create(ctx context.Context, s *Subject) error
	GetByID(ctx context.Context, id int64) (*Subject, error)
	// ListByIDs returns the subjects that exist among ids, ordered by name then id.
	ListByIDs(ctx context.Context, ids []int64) ([]*Subject, error)
	Update(ctx context.Context, s *Subject) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Subject, int, error)
	// Search matches query against name or IC number, case-insensitively.
	Search(ctx context.Context, query string, limit, offset int) ([]*Subject, int, error)
}
