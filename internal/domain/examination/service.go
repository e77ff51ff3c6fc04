package examination

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks input rejected before it reaches the store.
var ErrInvalid = errors.New("invalid examination")

type Service struct {
	exams Repository
}

func NewService(exams Repository) *Service {
	return &Service{exams: exams}
}

// CreateExamination validates and stores an examination. Blank physical
// findings are recorded as "Normal"; a blank exam type means periodic.
func (s *Service) CreateExamination(ctx context.Context, e *Examination) error {
	if e.SubjectID <= 0 {
		return fmt.Errorf("%w: subject_id is required", ErrInvalid)
	}
	if e.ExamDate.IsZero() {
		return fmt.Errorf("%w: exam_date is required", ErrInvalid)
	}
	if e.ExamType == "" {
		e.ExamType = ExamPeriodic
	}
	if !e.ExamType.Valid() {
		return fmt.Errorf("%w: exam_type must be pre-employment, periodic or exit", ErrInvalid)
	}
	if e.MRPDate != nil && e.MRPDate.Before(e.ExamDate) {
		return fmt.Errorf("%w: mrp_date is before exam_date", ErrInvalid)
	}
	e.Examiner = strings.TrimSpace(e.Examiner)
	if e.FinalAssessment != nil {
		trimmed := strings.TrimSpace(*e.FinalAssessment)
		e.FinalAssessment = &trimmed
	}

	pe := &e.PhysicalExam
	for _, field := range []*string{&pe.GeneralAppearance, &pe.ENT, &pe.Skin, &pe.Respiratory, &pe.Cardiovascular, &pe.Abdomen} {
		if err := normalizeFinding(field); err != nil {
			return err
		}
	}
	return s.exams.Create(ctx, e)
}

func normalizeFinding(v *string) error {
	switch {
	case strings.TrimSpace(*v) == "":
		*v = FindingNormal
	case strings.EqualFold(strings.TrimSpace(*v), FindingNormal):
		*v = FindingNormal
	case IsAbnormal(*v):
		*v = FindingAbnormal
	default:
		return fmt.Errorf("%w: physical findings must be Normal or Abnormal, got %q", ErrInvalid, *v)
	}
	return nil
}

func (s *Service) GetExamination(ctx context.Context, subjectID, id int64) (*Examination, error) {
	return s.exams.GetByID(ctx, subjectID, id)
}

func (s *Service) ListExaminations(ctx context.Context, subjectID int64) ([]*Examination, error) {
	return s.exams.ListBySubject(ctx, subjectID)
}

func (s *Service) DeleteExamination(ctx context.Context, subjectID, id int64) error {
	return s.exams.Delete(ctx, subjectID, id)
}
