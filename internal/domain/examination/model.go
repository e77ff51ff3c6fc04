package examination

import (
	"strings"
	"time"
)

type ExamType string

const (
	ExamPreEmployment ExamType = "pre-employment"
	ExamPeriodic      ExamType = "periodic"
	ExamExit          ExamType = "exit"
)

func (t ExamType) Valid() bool {
	switch t {
	case ExamPreEmployment, ExamPeriodic, ExamExit:
		return true
	}
	return false
}

// Finding values used by the physical examination text fields.
const (
	FindingNormal   = "Normal"
	FindingAbnormal = "Abnormal"
)

// Examination is one medical surveillance event. It is stored as a row in
// examination plus one row in each of the four finding tables.
type Examination struct {
	ID              int64      `db:"id" json:"id"`
	SubjectID       int64      `db:"subject_id" json:"subject_id"`
	ExamDate        time.Time  `db:"exam_date" json:"exam_date"`
	Examiner        string     `db:"examiner" json:"examiner"`
	ExamType        ExamType   `db:"exam_type" json:"exam_type"`
	FinalAssessment *string    `db:"final_assessment" json:"final_assessment,omitempty"`
	MRPDate         *time.Time `db:"mrp_date" json:"mrp_date,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`

	HealthHistory    HealthHistory    `json:"health_history"`
	PhysicalExam     PhysicalExam     `json:"physical_exam"`
	ClinicalFindings ClinicalFindings `json:"clinical_findings"`
	ChemicalExposure ChemicalExposure `json:"chemical_exposure"`
}

// Assessment returns the free-text final assessment, "" when unset.
func (e *Examination) Assessment() string {
	if e.FinalAssessment == nil {
		return ""
	}
	return *e.FinalAssessment
}

// HealthHistory holds the symptoms the worker reported.
type HealthHistory struct {
	BreathingDifficulty bool `db:"breathing_difficulty" json:"breathing_difficulty"`
	Cough               bool `db:"cough" json:"cough"`
	Headache            bool `db:"headache" json:"headache"`
	Nausea              bool `db:"nausea" json:"nausea"`
	EyeIrritation       bool `db:"eye_irritation" json:"eye_irritation"`
	SkinIssues          bool `db:"skin_issues" json:"skin_issues"`
	Dizziness           bool `db:"dizziness" json:"dizziness"`
	ChestTightness      bool `db:"chest_tightness" json:"chest_tightness"`
}

// PhysicalExam holds per-system findings ("Normal" or "Abnormal") and the
// organ-function signs.
type PhysicalExam struct {
	GeneralAppearance  string `db:"general_appearance" json:"general_appearance"`
	ENT                string `db:"ent" json:"ent"`
	Skin               string `db:"skin" json:"skin"`
	Respiratory        string `db:"respiratory" json:"respiratory"`
	Cardiovascular     string `db:"cardiovascular" json:"cardiovascular"`
	Abdomen            string `db:"abdomen" json:"abdomen"`
	Hepatomegaly       bool   `db:"hepatomegaly" json:"hepatomegaly"`
	Splenomegaly       bool   `db:"splenomegaly" json:"splenomegaly"`
	PalpableLymphNodes bool   `db:"palpable_lymph_nodes" json:"palpable_lymph_nodes"`
}

// IsAbnormal reports whether a physical examination text value records an
// abnormal finding.
func IsAbnormal(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), FindingAbnormal)
}

// ClinicalFindings holds the work-relatedness judgement.
type ClinicalFindings struct {
	WorkRelatedDisease   bool   `db:"work_related_disease" json:"work_related_disease"`
	WorkRelatedPoisoning bool   `db:"work_related_poisoning" json:"work_related_poisoning"`
	ExposureAboveLimit   bool   `db:"exposure_above_limit" json:"exposure_above_limit"`
	Remarks              string `db:"remarks" json:"remarks"`
}

// ChemicalExposure holds the biological monitoring results.
type ChemicalExposure struct {
	ChemicalName   string `db:"chemical_name" json:"chemical_name"`
	BaselineResult string `db:"baseline_result" json:"baseline_result"`
	AnnualResult   string `db:"annual_result" json:"annual_result"`
}
