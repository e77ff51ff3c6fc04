package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ohs/ohs/internal/domain/company"
	"github.com/ohs/ohs/internal/domain/examination"
	"github.com/ohs/ohs/internal/domain/occupational"
	"github.com/ohs/ohs/internal/domain/subject"
	"github.com/ohs/ohs/internal/platform/db"
)

// The store interfaces are the read-only slices of the domain repositories
// the aggregator needs. The Postgres repositories satisfy them directly.

type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*subject.Subject, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*subject.Subject, error)
}

type HistoryStore interface {
	Latest(ctx context.Context, subjectID int64) (*occupational.History, error)
	ListLatestByEmployerKey(ctx context.Context, key string) ([]*occupational.History, error)
	ListByEmployerKey(ctx context.Context, key string) ([]*occupational.History, error)
}

type CompanyStore interface {
	GetByID(ctx context.Context, id int64) (*company.Company, error)
	GetByName(ctx context.Context, name string) (*company.Company, error)
	GetByKey(ctx context.Context, key string) (*company.Company, error)
}

type ExaminationStore interface {
	ListBySubject(ctx context.Context, subjectID int64) ([]*examination.Examination, error)
	ListBySubjects(ctx context.Context, subjectIDs []int64) ([]*examination.Examination, error)
}

// EmployeeReport is one subject joined with its current employment, that
// employer's company record and every examination.
type EmployeeReport struct {
	Subject *subject.Subject
	// Employment is nil when the subject has no occupational history.
	Employment *occupational.History
	// Company is nil when the employer name matches no company.
	Company *company.Company
	// Examinations is newest first and never nil.
	Examinations []*examination.Examination
}

// Latest is the most recent examination, nil when there is none.
func (r *EmployeeReport) Latest() *examination.Examination {
	if len(r.Examinations) == 0 {
		return nil
	}
	return r.Examinations[0]
}

// AbnormalEntry is one abnormal-qualifying examination with its subject.
type AbnormalEntry struct {
	Subject     *subject.Subject
	Employment  *occupational.History
	Examination *examination.Examination
}

// CompanyReport lists the abnormal examinations of a company's current
// workforce.
type CompanyReport struct {
	Company *company.Company
	// Employees is the number of subjects currently employed there.
	Employees int
	// Abnormal is ordered by subject (name, id) then exam date descending.
	// Empty, not nil, when nothing qualifies.
	Abnormal []AbnormalEntry
	// ChemicalHazards is the sorted set of distinct non-empty exposure
	// incident texts across the employees.
	ChemicalHazards []string
}

// Aggregator builds report records. It only reads, holds no state between
// calls and is safe for concurrent use.
type Aggregator struct {
	subjects  SubjectStore
	history   HistoryStore
	companies CompanyStore
	exams     ExaminationStore
}

func NewAggregator(subjects SubjectStore, history HistoryStore, companies CompanyStore, exams ExaminationStore) *Aggregator {
	return &Aggregator{subjects: subjects, history: history, companies: companies, exams: exams}
}

func storageErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, what, err)
}

// BuildEmployeeReport assembles the record for one subject. A missing
// subject is ErrNotFound; a missing history entry or an unmatched employer
// only leaves those fields nil.
func (a *Aggregator) BuildEmployeeReport(ctx context.Context, subjectID int64) (*EmployeeReport, error) {
	subj, err := a.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("subject %d: %w", subjectID, ErrNotFound)
		}
		return nil, storageErr("load subject", err)
	}
	r := &EmployeeReport{Subject: subj}

	r.Employment, err = a.history.Latest(ctx, subjectID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, storageErr("load occupational history", err)
		}
		r.Employment = nil
	}

	if r.Employment != nil {
		r.Company, err = a.companies.GetByKey(ctx, company.NormalizeName(r.Employment.EmployerName))
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				return nil, storageErr("resolve employer", err)
			}
			r.Company = nil
		}
	}

	exams, err := a.exams.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, storageErr("load examinations", err)
	}
	r.Examinations = sortExaminations(exams)
	return r, nil
}

// BuildCompanyAbnormalReport resolves ref as a numeric company id or an exact
// company name and collects the abnormal examinations of every subject whose
// current employer is that company.
func (a *Aggregator) BuildCompanyAbnormalReport(ctx context.Context, ref string) (*CompanyReport, error) {
	co, err := a.resolveCompany(ctx, ref)
	if err != nil {
		return nil, err
	}

	key := company.NormalizeName(co.Name)
	employment, err := a.history.ListLatestByEmployerKey(ctx, key)
	if err != nil {
		return nil, storageErr("load employees", err)
	}
	bySubject := lo.KeyBy(employment, func(h *occupational.History) int64 { return h.SubjectID })
	ids := lo.Keys(bySubject)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	subjects, err := a.subjects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("load subjects", err)
	}
	exams, err := a.exams.ListBySubjects(ctx, ids)
	if err != nil {
		return nil, storageErr("load examinations", err)
	}
	examsBySubject := lo.GroupBy(exams, func(e *examination.Examination) int64 { return e.SubjectID })
	// Incidents come from every entry at this employer, including entries
	// of people who have since moved on and older entries of current staff.
	incidents, err := a.history.ListByEmployerKey(ctx, key)
	if err != nil {
		return nil, storageErr("load exposure incidents", err)
	}

	sort.SliceStable(subjects, func(i, j int) bool {
		if subjects[i].Name != subjects[j].Name {
			return subjects[i].Name < subjects[j].Name
		}
		return subjects[i].ID < subjects[j].ID
	})

	r := &CompanyReport{
		Company:         co,
		Employees:       len(subjects),
		Abnormal:        []AbnormalEntry{},
		ChemicalHazards: chemicalHazards(incidents),
	}
	for _, s := range subjects {
		for _, e := range sortExaminations(examsBySubject[s.ID]) {
			if IsAbnormalAssessment(e.Assessment()) {
				r.Abnormal = append(r.Abnormal, AbnormalEntry{Subject: s, Employment: bySubject[s.ID], Examination: e})
			}
		}
	}
	return r, nil
}

func (a *Aggregator) resolveCompany(ctx context.Context, ref string) (*company.Company, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("empty company reference: %w", ErrNotFound)
	}
	if id, perr := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); perr == nil && id > 0 {
		co, err := a.companies.GetByID(ctx, id)
		if err == nil {
			return co, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return nil, storageErr("load company", err)
		}
	}
	co, err := a.companies.GetByName(ctx, ref)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("company %q: %w", ref, ErrNotFound)
		}
		return nil, storageErr("load company", err)
	}
	return co, nil
}

// sortExaminations orders by exam date, newest first. The sort is stable so
// exams on the same date keep the order the store returned (insertion order).
func sortExaminations(exams []*examination.Examination) []*examination.Examination {
	out := make([]*examination.Examination, len(exams))
	copy(out, exams)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExamDate.After(out[j].ExamDate)
	})
	return out
}

// chemicalHazards deduplicates by exact string; blank texts are dropped.
func chemicalHazards(employment []*occupational.History) []string {
	incidents := lo.Filter(lo.Map(employment, func(h *occupational.History, _ int) string {
		return h.ChemicalExposureIncident
	}), func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
	hazards := lo.Uniq(incidents)
	sort.Strings(hazards)
	return hazards
}
