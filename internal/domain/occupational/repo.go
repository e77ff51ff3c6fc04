package occupational

import "context"

type Repository interface {
	Create(ctx context.Context, h *History) error
	// ListBySubject returns newest first (id descending).
	ListBySubject(ctx context.Context, subjectID int64) ([]*History, error)
	// Latest returns the entry with the highest id, or db.ErrNotFound.
	Latest(ctx context.Context, subjectID int64) (*History, error)
	// ListLatestByEmployerKey returns, for every subject whose latest entry's
	// employer normalizes to key, that latest entry. Ordered by subject id.
	ListLatestByEmployerKey(ctx context.Context, key string) ([]*History, error)
	// ListByEmployerKey returns every entry, current or past, whose employer
	// normalizes to key. Ordered by id.
	ListByEmployerKey(ctx context.Context, key string) ([]*History, error)
	// Delete removes entry id only if it belongs to subjectID.
	Delete(ctx context.Context, subjectID, id int64) error
}
