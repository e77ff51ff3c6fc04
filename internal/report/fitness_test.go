package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryFitness(t *testing.T) {
	tests := []struct {
		assessment string
		want       Fitness
	}{
		{"", FitnessPending},
		{"   ", FitnessPending},
		{"Fit for work", FitnessFit},
		{"FIT", FitnessFit},
		{"Not fit for chemical handling", FitnessNotFit},
		{"Unfit", FitnessNotFit},
		{"Temporarily UNFIT", FitnessNotFit},
		{"Refer to specialist", FitnessNotFit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SummaryFitness(tt.assessment), "assessment %q", tt.assessment)
	}
}

func TestCertificateFitness(t *testing.T) {
	assert.Equal(t, FitnessPending, CertificateFitness("", 0))
	assert.Equal(t, FitnessFit, CertificateFitness("", 1))
	assert.Equal(t, FitnessFit, CertificateFitness("fit with restrictions", 3))
	assert.Equal(t, FitnessNotFit, CertificateFitness("not fit", 1))
}

func TestFitness_Label(t *testing.T) {
	assert.Equal(t, "Fit", FitnessFit.Label())
	assert.Equal(t, "Not Fit", FitnessNotFit.Label())
	assert.Equal(t, "Pending", FitnessPending.Label())
}

func TestIsAbnormalAssessment(t *testing.T) {
	abnormal := []string{"", "  ", "Abnormal ECG", "ABNORMAL", "not fit", "Unfit for night shift"}
	for _, a := range abnormal {
		assert.True(t, IsAbnormalAssessment(a), "assessment %q", a)
	}
	normal := []string{"Fit", "Fit for work", "Normal"}
	for _, a := range normal {
		assert.False(t, IsAbnormalAssessment(a), "assessment %q", a)
	}
}
