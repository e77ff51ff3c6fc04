package examination

import "context"

type Repository interface {
	// Create stores the examination and its four finding rows atomically.
	Create(ctx context.Context, e *Examination) error
	GetByID(ctx context.Context, subjectID, id int64) (*Examination, error)
	// ListBySubject returns exam date descending; same-day exams keep
	// insertion (id) order.
	ListBySubject(ctx context.Context, subjectID int64) ([]*Examination, error)
	// ListBySubjects is ListBySubject over several subjects, grouped by
	// subject id.
	ListBySubjects(ctx context.Context, subjectIDs []int64) ([]*Examination, error)
	Delete(ctx context.Context, subjectID, id int64) error
}
