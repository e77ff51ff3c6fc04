package examination

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

// Finding rows are LEFT JOINed so an examination entered before a finding
// table existed still reads back with column defaults.
const examSelect = `
	SELECT e.id, e.subject_id, e.exam_date, e.examiner, e.exam_type, e.final_assessment, e.mrp_date, e.created_at,
		COALESCE(hh.breathing_difficulty, FALSE), COALESCE(hh.cough, FALSE), COALESCE(hh.headache, FALSE),
		COALESCE(hh.nausea, FALSE), COALESCE(hh.eye_irritation, FALSE), COALESCE(hh.skin_issues, FALSE),
		COALESCE(hh.dizziness, FALSE), COALESCE(hh.chest_tightness, FALSE),
		COALESCE(pe.general_appearance, 'Normal'), COALESCE(pe.ent, 'Normal'), COALESCE(pe.skin, 'Normal'),
		COALESCE(pe.respiratory, 'Normal'), COALESCE(pe.cardiovascular, 'Normal'), COALESCE(pe.abdomen, 'Normal'),
		COALESCE(pe.hepatomegaly, FALSE), COALESCE(pe.splenomegaly, FALSE), COALESCE(pe.palpable_lymph_nodes, FALSE),
		COALESCE(cf.work_related_disease, FALSE), COALESCE(cf.work_related_poisoning, FALSE),
		COALESCE(cf.exposure_above_limit, FALSE), COALESCE(cf.remarks, ''),
		COALESCE(ce.chemical_name, ''), COALESCE(ce.baseline_result, ''), COALESCE(ce.annual_result, '')
	FROM examination e
	LEFT JOIN health_history hh ON hh.examination_id = e.id
	LEFT JOIN physical_exam pe ON pe.examination_id = e.id
	LEFT JOIN clinical_findings cf ON cf.examination_id = e.id
	LEFT JOIN chemical_exposure ce ON ce.examination_id = e.id`

func (r *repoPG) Create(ctx context.Context, e *Examination) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.Conn(ctx, r.pool)
		err := q.QueryRow(ctx, `
			INSERT INTO examination (subject_id, exam_date, examiner, exam_type, final_assessment, mrp_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			e.SubjectID, e.ExamDate, e.Examiner, string(e.ExamType), e.FinalAssessment, e.MRPDate,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("examination create: %w", db.Classify(err))
		}

		hh := e.HealthHistory
		if _, err := q.Exec(ctx, `
			INSERT INTO health_history (examination_id, subject_id, breathing_difficulty, cough, headache,
				nausea, eye_irritation, skin_issues, dizziness, chest_tightness)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			e.ID, e.SubjectID, hh.BreathingDifficulty, hh.Cough, hh.Headache,
			hh.Nausea, hh.EyeIrritation, hh.SkinIssues, hh.Dizziness, hh.ChestTightness,
		); err != nil {
			return fmt.Errorf("health history create: %w", err)
		}

		pe := e.PhysicalExam
		if _, err := q.Exec(ctx, `
			INSERT INTO physical_exam (examination_id, subject_id, general_appearance, ent, skin, respiratory,
				cardiovascular, abdomen, hepatomegaly, splenomegaly, palpable_lymph_nodes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			e.ID, e.SubjectID, pe.GeneralAppearance, pe.ENT, pe.Skin, pe.Respiratory,
			pe.Cardiovascular, pe.Abdomen, pe.Hepatomegaly, pe.Splenomegaly, pe.PalpableLymphNodes,
		); err != nil {
			return fmt.Errorf("physical exam create: %w", err)
		}

		cf := e.ClinicalFindings
		if _, err := q.Exec(ctx, `
			INSERT INTO clinical_findings (examination_id, subject_id, work_related_disease,
				work_related_poisoning, exposure_above_limit, remarks)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			e.ID, e.SubjectID, cf.WorkRelatedDisease, cf.WorkRelatedPoisoning, cf.ExposureAboveLimit, cf.Remarks,
		); err != nil {
			return fmt.Errorf("clinical findings create: %w", err)
		}

		ce := e.ChemicalExposure
		if _, err := q.Exec(ctx, `
			INSERT INTO chemical_exposure (examination_id, subject_id, chemical_name, baseline_result, annual_result)
			VALUES ($1,$2,$3,$4,$5)`,
			e.ID, e.SubjectID, ce.ChemicalName, ce.BaselineResult, ce.AnnualResult,
		); err != nil {
			return fmt.Errorf("chemical exposure create: %w", err)
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, subjectID, id int64) (*Examination, error) {
	e, err := scanExamination(db.Conn(ctx, r.pool).QueryRow(ctx,
		examSelect+` WHERE e.id = $1 AND e.subject_id = $2`, id, subjectID))
	if err != nil {
		return nil, fmt.Errorf("examination %d: %w", id, db.Classify(err))
	}
	return e, nil
}

func (r *repoPG) ListBySubject(ctx context.Context, subjectID int64) ([]*Examination, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		examSelect+` WHERE e.subject_id = $1 ORDER BY e.exam_date DESC, e.id ASC`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("examination list subject %d: %w", subjectID, err)
	}
	return collectExaminations(rows)
}

func (r *repoPG) ListBySubjects(ctx context.Context, subjectIDs []int64) ([]*Examination, error) {
	if len(subjectIDs) == 0 {
		return []*Examination{}, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		examSelect+` WHERE e.subject_id = ANY($1) ORDER BY e.subject_id, e.exam_date DESC, e.id ASC`, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("examination list subjects: %w", err)
	}
	return collectExaminations(rows)
}

// Delete removes the examination; its finding rows cascade.
func (r *repoPG) Delete(ctx context.Context, subjectID, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM examination WHERE id = $1 AND subject_id = $2`, id, subjectID)
	if err != nil {
		return fmt.Errorf("examination delete %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("examination delete %d: %w", id, db.ErrNotFound)
	}
	return nil
}

func scanExamination(row pgx.Row) (*Examination, error) {
	var (
		e        Examination
		examType string
	)
	hh, pe, cf, ce := &e.HealthHistory, &e.PhysicalExam, &e.ClinicalFindings, &e.ChemicalExposure
	if err := row.Scan(
		&e.ID, &e.SubjectID, &e.ExamDate, &e.Examiner, &examType, &e.FinalAssessment, &e.MRPDate, &e.CreatedAt,
		&hh.BreathingDifficulty, &hh.Cough, &hh.Headache,
		&hh.Nausea, &hh.EyeIrritation, &hh.SkinIssues,
		&hh.Dizziness, &hh.ChestTightness,
		&pe.GeneralAppearance, &pe.ENT, &pe.Skin,
		&pe.Respiratory, &pe.Cardiovascular, &pe.Abdomen,
		&pe.Hepatomegaly, &pe.Splenomegaly, &pe.PalpableLymphNodes,
		&cf.WorkRelatedDisease, &cf.WorkRelatedPoisoning,
		&cf.ExposureAboveLimit, &cf.Remarks,
		&ce.ChemicalName, &ce.BaselineResult, &ce.AnnualResult,
	); err != nil {
		return nil, err
	}
	e.ExamType = ExamType(examType)
	return &e, nil
}

func collectExaminations(rows pgx.Rows) ([]*Examination, error) {
	defer rows.Close()
	out := []*Examination{}
	for rows.Next() {
		e, err := scanExamination(rows)
		if err != nil {
			return nil, fmt.Errorf("scan examination: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
