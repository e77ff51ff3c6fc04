package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ohs/ohs/internal/domain/examination"
)

func TestDescribeFindings_Placeholders(t *testing.T) {
	f := DescribeFindings(&examination.Examination{
		PhysicalExam: examination.PhysicalExam{GeneralAppearance: "Normal", ENT: "normal"},
	})

	assert.Equal(t, Findings{
		Symptoms:        NoSymptoms,
		Clinical:        NoClinicalFindings,
		OrganFunction:   NoOrganFindings,
		Biological:      NoBiological,
		WorkRelatedness: NoWorkRelatedness,
	}, f)
}

func TestDescribeFindings_TableOrder(t *testing.T) {
	e := &examination.Examination{
		HealthHistory: examination.HealthHistory{ChestTightness: true, Cough: true, BreathingDifficulty: true},
		PhysicalExam: examination.PhysicalExam{
			Abdomen:      "Abnormal",
			Skin:         " abnormal ",
			Respiratory:  "Normal",
			Splenomegaly: true,
			Hepatomegaly: true,
		},
		ClinicalFindings: examination.ClinicalFindings{ExposureAboveLimit: true, WorkRelatedDisease: true},
		ChemicalExposure: examination.ChemicalExposure{ChemicalName: "Toluene", BaselineResult: "0.2 g/g", AnnualResult: "0.4 g/g"},
	}

	f := DescribeFindings(e)
	assert.Equal(t, "Breathing difficulty, Cough, Chest tightness", f.Symptoms)
	assert.Equal(t, "Skin, Abdomen", f.Clinical)
	assert.Equal(t, "Hepatomegaly, Splenomegaly", f.OrganFunction)
	assert.Equal(t, "Toluene Baseline: 0.2 g/g, Annual: 0.4 g/g", f.Biological)
	assert.Equal(t, "Work-related disease, Exposure above limit", f.WorkRelatedness)
}

func TestDescribeFindings_BiologicalAnnualOnly(t *testing.T) {
	f := DescribeFindings(&examination.Examination{
		ChemicalExposure: examination.ChemicalExposure{AnnualResult: "12 ug/dL"},
	})
	assert.Equal(t, "Annual: 12 ug/dL", f.Biological)
}
