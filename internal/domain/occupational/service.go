package occupational

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks input rejected before it reaches the store.
var ErrInvalid = errors.New("invalid occupational history")

type Service struct {
	history Repository
}

func NewService(history Repository) *Service {
	return &Service{history: history}
}

// AddHistory records a new employment stint. It becomes the subject's
// current employment.
func (s *Service) AddHistory(ctx context.Context, h *History) error {
	if h.SubjectID <= 0 {
		return fmt.Errorf("%w: subject_id is required", ErrInvalid)
	}
	h.EmployerName = strings.TrimSpace(h.EmployerName)
	if h.EmployerName == "" {
		return fmt.Errorf("%w: employer_name is required", ErrInvalid)
	}
	h.ChemicalExposureIncident = strings.TrimSpace(h.ChemicalExposureIncident)
	return s.history.Create(ctx, h)
}

func (s *Service) ListHistory(ctx context.Context, subjectID int64) ([]*History, error) {
	return s.history.ListBySubject(ctx, subjectID)
}

func (s *Service) DeleteHistory(ctx context.Context, subjectID, id int64) error {
	return s.history.Delete(ctx, subjectID, id)
}
