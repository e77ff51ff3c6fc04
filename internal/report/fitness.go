package report

import "strings"

// Fitness is the status derived from a free-text final assessment.
type Fitness string

const (
	FitnessFit     Fitness = "fit"
	FitnessNotFit  Fitness = "not fit"
	FitnessPending Fitness = "pending"
)

// Label is the display form printed on documents.
func (f Fitness) Label() string {
	switch f {
	case FitnessFit:
		return "Fit"
	case FitnessNotFit:
		return "Not Fit"
	default:
		return "Pending"
	}
}

// SummaryFitness classifies an assessment for the surveillance summaries.
// An empty assessment means the examination has no outcome yet.
func SummaryFitness(assessment string) Fitness {
	if strings.TrimSpace(assessment) == "" {
		return FitnessPending
	}
	return classifyAssessment(assessment)
}

// CertificateFitness classifies the assessment printed on a certificate.
// With no examinations the certificate is pending; once at least one
// examination exists an empty assessment certifies the worker fit.
//
// The empty-assessment default differs from SummaryFitness. Keep the two
// separate until the clinic confirms which one is right.
func CertificateFitness(assessment string, examinations int) Fitness {
	if strings.TrimSpace(assessment) == "" {
		if examinations == 0 {
			return FitnessPending
		}
		return FitnessFit
	}
	return classifyAssessment(assessment)
}

// "not fit" and "unfit" both contain "fit", so they are ruled out first.
func classifyAssessment(assessment string) Fitness {
	text := strings.ToLower(assessment)
	if strings.Contains(text, "fit") && !strings.Contains(text, "not fit") && !strings.Contains(text, "unfit") {
		return FitnessFit
	}
	return FitnessNotFit
}

// IsAbnormalAssessment selects examinations for the company abnormal
// findings summary: an empty assessment, or one mentioning "abnormal",
// "not fit" or "unfit" in any case.
//
// This is a substring heuristic over free text. It misreads phrases such as
// "not unfit" and should be replaced by a structured outcome field once the
// clinic agrees on one.
func IsAbnormalAssessment(assessment string) bool {
	text := strings.ToLower(strings.TrimSpace(assessment))
	if text == "" {
		return true
	}
	return strings.Contains(text, "abnormal") ||
		strings.Contains(text, "not fit") ||
		strings.Contains(text, "unfit")
}
