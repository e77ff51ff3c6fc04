package subject

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks input rejected before it reaches the store.
var ErrInvalid = errors.New("invalid subject")

type Service struct {
	subjects Repository
}

func NewService(subjects Repository) *Service {
	return &Service{subjects: subjects}
}

func validate(s *Subject) error {
	s.Name = strings.TrimSpace(s.Name)
	s.ICNumber = strings.TrimSpace(s.ICNumber)
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if s.ICNumber == "" {
		return fmt.Errorf("%w: ic_number is required", ErrInvalid)
	}
	return nil
}

func (s *Service) CreateSubject(ctx context.Context, subj *Subject) error {
	if err := validate(subj); err != nil {
		return err
	}
	return s.subjects.Create(ctx, subj)
}

func (s *Service) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	return s.subjects.GetByID(ctx, id)
}

func (s *Service) UpdateSubject(ctx context.Context, subj *Subject) error {
	if err := validate(subj); err != nil {
		return err
	}
	return s.subjects.Update(ctx, subj)
}

func (s *Service) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjects.Delete(ctx, id)
}

// ListSubjects pages through all subjects, or only those whose name or IC
// number contains query when it is non-empty.
func (s *Service) ListSubjects(ctx context.Context, query string, limit, offset int) ([]*Subject, int, error) {
	if q := strings.TrimSpace(query); q != "" {
		return s.subjects.Search(ctx, q, limit, offset)
	}
	return s.subjects.List(ctx, limit, offset)
}
