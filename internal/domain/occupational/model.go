package occupational

import "time"

// History is one employment stint of a subject. The entry with the highest
// id is the subject's current employment.
type History struct {
	ID                       int64     `db:"id" json:"id"`
	SubjectID                int64     `db:"subject_id" json:"subject_id"`
	EmployerName             string    `db:"employer_name" json:"employer_name"`
	JobTitle                 string    `db:"job_title" json:"job_title"`
	EmploymentDuration       string    `db:"employment_duration" json:"employment_duration"`
	ExposureDuration         string    `db:"exposure_duration" json:"exposure_duration"`
	ChemicalExposureIncident string    `db:"chemical_exposure_incident" json:"chemical_exposure_incident"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
}
