package report

import (
	"strings"

	"github.com/samber/lo"

	"github.com/ohs/ohs/internal/domain/examination"
)

// Placeholders printed when a finding group has nothing to report.
const (
	NoSymptoms         = "None"
	NoClinicalFindings = "Normal"
	NoOrganFindings    = "None"
	NoBiological       = "N/A"
	NoWorkRelatedness  = "Review"
)

// flag maps one examination field to its printed label. Tables are ordered:
// labels come out in table order.
type flag struct {
	label string
	set   func(e *examination.Examination) bool
}

var symptomFlags = []flag{
	{"Breathing difficulty", func(e *examination.Examination) bool { return e.HealthHistory.BreathingDifficulty }},
	{"Cough", func(e *examination.Examination) bool { return e.HealthHistory.Cough }},
	{"Headache", func(e *examination.Examination) bool { return e.HealthHistory.Headache }},
	{"Nausea", func(e *examination.Examination) bool { return e.HealthHistory.Nausea }},
	{"Eye irritation", func(e *examination.Examination) bool { return e.HealthHistory.EyeIrritation }},
	{"Skin issues", func(e *examination.Examination) bool { return e.HealthHistory.SkinIssues }},
	{"Dizziness", func(e *examination.Examination) bool { return e.HealthHistory.Dizziness }},
	{"Chest tightness", func(e *examination.Examination) bool { return e.HealthHistory.ChestTightness }},
}

var clinicalFlags = []flag{
	{"General appearance", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.GeneralAppearance) }},
	{"ENT", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.ENT) }},
	{"Skin", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.Skin) }},
	{"Respiratory", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.Respiratory) }},
	{"Cardiovascular", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.Cardiovascular) }},
	{"Abdomen", func(e *examination.Examination) bool { return examination.IsAbnormal(e.PhysicalExam.Abdomen) }},
}

var organFlags = []flag{
	{"Hepatomegaly", func(e *examination.Examination) bool { return e.PhysicalExam.Hepatomegaly }},
	{"Splenomegaly", func(e *examination.Examination) bool { return e.PhysicalExam.Splenomegaly }},
	{"Palpable lymph nodes", func(e *examination.Examination) bool { return e.PhysicalExam.PalpableLymphNodes }},
}

var workFlags = []flag{
	{"Work-related disease", func(e *examination.Examination) bool { return e.ClinicalFindings.WorkRelatedDisease }},
	{"Work-related poisoning", func(e *examination.Examination) bool { return e.ClinicalFindings.WorkRelatedPoisoning }},
	{"Exposure above limit", func(e *examination.Examination) bool { return e.ClinicalFindings.ExposureAboveLimit }},
}

func labels(e *examination.Examination, table []flag) []string {
	return lo.FilterMap(table, func(f flag, _ int) (string, bool) {
		return f.label, f.set(e)
	})
}

func joinOr(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	return strings.Join(items, ", ")
}

// Findings is the printable reduction of one examination's flag groups.
// No field is ever empty.
type Findings struct {
	Symptoms        string
	Clinical        string
	OrganFunction   string
	Biological      string
	WorkRelatedness string
}

func DescribeFindings(e *examination.Examination) Findings {
	return Findings{
		Symptoms:        joinOr(labels(e, symptomFlags), NoSymptoms),
		Clinical:        joinOr(labels(e, clinicalFlags), NoClinicalFindings),
		OrganFunction:   joinOr(labels(e, organFlags), NoOrganFindings),
		Biological:      joinOr(biologicalResults(e.ChemicalExposure), NoBiological),
		WorkRelatedness: joinOr(labels(e, workFlags), NoWorkRelatedness),
	}
}

func biologicalResults(ce examination.ChemicalExposure) []string {
	var out []string
	if v := strings.TrimSpace(ce.BaselineResult); v != "" {
		out = append(out, "Baseline: "+v)
	}
	if v := strings.TrimSpace(ce.AnnualResult); v != "" {
		out = append(out, "Annual: "+v)
	}
	if len(out) > 0 {
		if name := strings.TrimSpace(ce.ChemicalName); name != "" {
			out[0] = name + " " + out[0]
		}
	}
	return out
}
