package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ohs/ohs/internal/domain/asset"
	"github.com/ohs/ohs/internal/domain/examination"
	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/report/document"
)

// LegalReference is printed under every report title.
const LegalReference = "Occupational Safety and Health (Use and Standards of Exposure of Chemicals Hazardous to Health) Regulations 2000"

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04"
	notRecorded     = "Not recorded"
)

// AssetResolver supplies header and signature bytes. A missing asset is
// reported as ErrAssetMissing.
type AssetResolver interface {
	GetActiveHeaderAsset(ctx context.Context, requestedID *int64) (*asset.Content, error)
	GetSignatureAsset(ctx context.Context, userID string) (*asset.Content, error)
}

// Options carries the per-request inputs of a composition.
type Options struct {
	// HeaderID selects a specific letterhead; nil uses the latest upload.
	HeaderID *int64
	// Signer is the authenticated user whose signature goes on certificates.
	Signer auth.Principal
}

// Composer maps report records onto document trees. Apart from asking the
// asset resolver for images it performs no I/O.
type Composer struct {
	assets AssetResolver
	clinic string
	logger zerolog.Logger
	now    func() time.Time
}

func NewComposer(assets AssetResolver, clinic string, logger zerolog.Logger) *Composer {
	return &Composer{assets: assets, clinic: clinic, logger: logger, now: time.Now}
}

// Certificate builds the single-page certificate of fitness from the latest
// examination.
func (c *Composer) Certificate(ctx context.Context, r *EmployeeReport, opts Options) (*document.Document, error) {
	now := c.now()
	header, err := c.header(ctx, opts.HeaderID)
	if err != nil {
		return nil, err
	}
	signature, err := c.signature(ctx, opts.Signer)
	if err != nil {
		return nil, err
	}

	latest := r.Latest()
	fitness := CertificateFitness(assessmentOf(latest), len(r.Examinations))

	var blocks []document.Block
	blocks = appendImage(blocks, header)
	blocks = append(blocks,
		&document.Heading{Title: "CERTIFICATE OF FITNESS", Subtitle: LegalReference},
		&document.Fields{Caption: "Employee", Rows: c.employeeFields(r)},
		&document.Lines{Label: "Employer address", Lines: c.companyAddress(r)},
		&document.Fields{Caption: "Examination", Rows: []document.Field{
			{Label: "Date of examination", Value: examDate(latest)},
			{Label: "Type of examination", Value: examType(latest)},
			{Label: "Examiner", Value: examiner(latest)},
			{Label: "Chemical hazards", Value: c.hazardCategories(r)},
			{Label: "Fitness", Value: fitness.Label()},
			{Label: "MRP follow-up", Value: mrpDate(latest)},
		}},
		&document.Paragraph{Text: certificateStatement(r, fitness), Bold: true},
		&document.Signature{
			Image: signature,
			Name:  opts.Signer.DisplayName(),
			Role:  "Occupational Health Doctor",
			Date:  now.Format(dateLayout),
		},
		c.footer(now),
	)

	return &document.Document{
		Title:       "Certificate of Fitness",
		Filename:    Filename(KindCertificate, r.Subject.Name, now),
		Layout:      document.CertificateLayout,
		GeneratedAt: now,
		Pages:       []document.Page{{Blocks: blocks}},
	}, nil
}

// EmployeeSummary builds the two-page surveillance summary of one subject:
// the examination table, then the narrative page.
func (c *Composer) EmployeeSummary(ctx context.Context, r *EmployeeReport, opts Options) (*document.Document, error) {
	now := c.now()
	header, err := c.header(ctx, opts.HeaderID)
	if err != nil {
		return nil, err
	}

	first := appendImage(nil, header)
	first = append(first,
		&document.Heading{Title: "MEDICAL SURVEILLANCE SUMMARY", Subtitle: LegalReference},
		&document.Fields{Caption: "Employee", Rows: c.employeeFields(r)},
	)
	if len(r.Examinations) == 0 {
		first = append(first, &document.Paragraph{Text: "No examinations recorded"})
	} else {
		first = append(first, examinationTable(r.Examinations))
	}

	second := appendImage(nil, header)
	second = append(second,
		&document.Heading{Title: "SUMMARY", Subtitle: r.Subject.Name},
		&document.Paragraph{Text: employeeNarrative(r)},
		&document.Fields{Rows: []document.Field{
			{Label: "Employment duration", Value: orDefault(employmentDuration(r), notRecorded)},
			{Label: "Chemical exposure duration", Value: orDefault(exposureDuration(r), notRecorded)},
			{Label: "Chemical exposure incident", Value: orDefault(exposureIncident(r), "None reported")},
			{Label: "Company chemical hazards", Value: c.hazardCategories(r)},
		}},
		c.footer(now),
	)

	return &document.Document{
		Title:       "Medical Surveillance Summary",
		Filename:    Filename(KindEmployeeSummary, r.Subject.Name, now),
		Layout:      document.SummaryLayout,
		GeneratedAt: now,
		Pages:       []document.Page{{Blocks: first}, {Blocks: second}},
	}, nil
}

// CompanySummary builds the two-page abnormal findings summary of a company.
func (c *Composer) CompanySummary(ctx context.Context, r *CompanyReport, opts Options) (*document.Document, error) {
	now := c.now()
	header, err := c.header(ctx, opts.HeaderID)
	if err != nil {
		return nil, err
	}

	co := r.Company
	categories := "None recorded"
	if len(co.ChemicalHazards) > 0 {
		categories = strings.Join(co.ChemicalHazards, ", ")
	}

	first := appendImage(nil, header)
	first = append(first,
		&document.Heading{Title: "ABNORMAL WORKER SUMMARY", Subtitle: LegalReference},
		&document.Fields{Caption: "Company", Rows: []document.Field{
			{Label: "Company", Value: co.Name},
			{Label: "Address", Value: strings.Join(FormatAddress(co.Street, co.Postcode, co.District, co.State), " ")},
			{Label: "Employees under surveillance", Value: strconv.Itoa(r.Employees)},
			{Label: "Chemical hazard categories", Value: categories},
			{Label: "Abnormal findings", Value: strconv.Itoa(len(r.Abnormal))},
		}},
	)
	if len(r.Abnormal) == 0 {
		first = append(first, &document.Paragraph{Text: "No abnormal findings", Bold: true})
	} else {
		first = append(first, abnormalTable(r.Abnormal))
	}

	hazards := r.ChemicalHazards
	if len(hazards) == 0 {
		hazards = []string{"None reported"}
	}
	second := appendImage(nil, header)
	second = append(second,
		&document.Heading{Title: "SUMMARY", Subtitle: co.Name},
		&document.Paragraph{Text: companyNarrative(r)},
		&document.Lines{Label: "Chemical exposure incidents reported", Lines: hazards},
		c.footer(now),
	)

	return &document.Document{
		Title:       "Abnormal Worker Summary",
		Filename:    Filename(KindAbnormalSummary, co.Name, now),
		Layout:      document.SummaryLayout,
		GeneratedAt: now,
		Pages:       []document.Page{{Blocks: first}, {Blocks: second}},
	}, nil
}

func (c *Composer) header(ctx context.Context, id *int64) (*document.Image, error) {
	content, err := c.assets.GetActiveHeaderAsset(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAssetMissing) {
			c.logger.Debug().Err(err).Msg("report header omitted")
			return nil, nil
		}
		return nil, storageErr("resolve header", err)
	}
	// Document headers are drawn as images; a PDF letterhead cannot be.
	if !isRaster(content.Extension) {
		c.logger.Debug().Str("extension", content.Extension).Msg("report header is not an image, omitted")
		return nil, nil
	}
	return &document.Image{Data: content.Data, Extension: content.Extension}, nil
}

func (c *Composer) signature(ctx context.Context, signer auth.Principal) (*document.Image, error) {
	if signer.UserID == "" {
		return nil, nil
	}
	content, err := c.assets.GetSignatureAsset(ctx, signer.UserID)
	if err != nil {
		if errors.Is(err, ErrAssetMissing) {
			c.logger.Debug().Err(err).Str("user_id", signer.UserID).Msg("report signature omitted")
			return nil, nil
		}
		return nil, storageErr("resolve signature", err)
	}
	return &document.Image{Data: content.Data, Extension: content.Extension, WidthMM: 45}, nil
}

func isRaster(ext string) bool {
	switch strings.ToLower(ext) {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}

func (c *Composer) footer(now time.Time) *document.Footer {
	return &document.Footer{Text: fmt.Sprintf("Generated by %s on %s", c.clinic, now.Format(timestampLayout))}
}

func (c *Composer) employeeFields(r *EmployeeReport) []document.Field {
	s := r.Subject
	dob := notRecorded
	if s.DateOfBirth != nil {
		dob = s.DateOfBirth.Format(dateLayout)
	}
	employer, job := notRecorded, notRecorded
	if r.Employment != nil {
		employer = orDefault(r.Employment.EmployerName, notRecorded)
		job = orDefault(r.Employment.JobTitle, notRecorded)
	}
	return []document.Field{
		{Label: "Name", Value: s.Name},
		{Label: "IC / Passport No.", Value: orDefault(s.ICNumber, notRecorded)},
		{Label: "Date of birth", Value: dob},
		{Label: "Gender", Value: orDefault(s.Gender, notRecorded)},
		{Label: "Employer", Value: employer},
		{Label: "Job title", Value: job},
	}
}

func (c *Composer) companyAddress(r *EmployeeReport) []string {
	if r.Company == nil {
		return []string{AddressNotSpecified}
	}
	co := r.Company
	return FormatAddress(co.Street, co.Postcode, co.District, co.State)
}

func (c *Composer) hazardCategories(r *EmployeeReport) string {
	if r.Company != nil && len(r.Company.ChemicalHazards) > 0 {
		return strings.Join(r.Company.ChemicalHazards, ", ")
	}
	if latest := r.Latest(); latest != nil && latest.ChemicalExposure.ChemicalName != "" {
		return latest.ChemicalExposure.ChemicalName
	}
	return "None recorded"
}

func examinationTable(exams []*examination.Examination) *document.Table {
	t := &document.Table{
		Caption: "Examinations",
		Columns: []string{"No.", "Date", "Type", "Examiner", "Symptoms", "Clinical Findings",
			"Organ Function", "Biological Monitoring", "Work Relatedness", "Fitness", "MRP Date"},
		Widths: []float64{0.5, 1.1, 1.1, 1.2, 1.6, 1.6, 1.3, 1.6, 1.4, 0.8, 1},
	}
	for i, e := range exams {
		f := DescribeFindings(e)
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			e.ExamDate.Format(dateLayout),
			string(e.ExamType),
			orDefault(e.Examiner, "-"),
			f.Symptoms,
			f.Clinical,
			f.OrganFunction,
			f.Biological,
			f.WorkRelatedness,
			SummaryFitness(e.Assessment()).Label(),
			mrpDate(e),
		})
	}
	return t
}

func abnormalTable(entries []AbnormalEntry) *document.Table {
	t := &document.Table{
		Caption: "Abnormal findings",
		Columns: []string{"No.", "Name", "IC / Passport No.", "Job Title", "Exam Date", "Symptoms",
			"Clinical Findings", "Organ Function", "Biological Monitoring", "Work Relatedness", "Assessment"},
		Widths: []float64{0.5, 1.5, 1.2, 1.1, 1, 1.4, 1.4, 1.2, 1.4, 1.2, 1.3},
	}
	for i, entry := range entries {
		e := entry.Examination
		f := DescribeFindings(e)
		job := "-"
		if entry.Employment != nil {
			job = orDefault(entry.Employment.JobTitle, "-")
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			entry.Subject.Name,
			orDefault(entry.Subject.ICNumber, "-"),
			job,
			e.ExamDate.Format(dateLayout),
			f.Symptoms,
			f.Clinical,
			f.OrganFunction,
			f.Biological,
			f.WorkRelatedness,
			orDefault(e.Assessment(), "Pending"),
		})
	}
	return t
}

func certificateStatement(r *EmployeeReport, fitness Fitness) string {
	name := r.Subject.Name
	latest := r.Latest()
	if latest == nil {
		return fmt.Sprintf("No medical surveillance examination has been recorded for %s. Fitness is pending.", name)
	}
	return fmt.Sprintf("This is to certify that %s was examined on %s and is %s for work involving chemicals hazardous to health.",
		name, latest.ExamDate.Format(dateLayout), strings.ToUpper(fitness.Label()))
}

func employeeNarrative(r *EmployeeReport) string {
	n := len(r.Examinations)
	if n == 0 {
		return fmt.Sprintf("%s has no recorded medical surveillance examinations.", r.Subject.Name)
	}
	oldest := r.Examinations[n-1].ExamDate.Format(dateLayout)
	newest := r.Examinations[0].ExamDate.Format(dateLayout)
	abnormal := 0
	for _, e := range r.Examinations {
		if IsAbnormalAssessment(e.Assessment()) {
			abnormal++
		}
	}
	return fmt.Sprintf("%s has %d recorded examination(s) between %s and %s. The latest outcome is %s. %d examination(s) require follow-up review.",
		r.Subject.Name, n, oldest, newest, SummaryFitness(r.Latest().Assessment()).Label(), abnormal)
}

func companyNarrative(r *CompanyReport) string {
	if len(r.Abnormal) == 0 {
		return fmt.Sprintf("No abnormal findings were recorded for the %d employee(s) of %s under medical surveillance.",
			r.Employees, r.Company.Name)
	}
	workers := map[int64]bool{}
	for _, e := range r.Abnormal {
		workers[e.Subject.ID] = true
	}
	return fmt.Sprintf("%d abnormal examination(s) were recorded for %d of %d employee(s) of %s. Each listed worker requires review by the occupational health doctor.",
		len(r.Abnormal), len(workers), r.Employees, r.Company.Name)
}

func appendImage(blocks []document.Block, img *document.Image) []document.Block {
	if img == nil {
		return blocks
	}
	return append(blocks, img)
}

func assessmentOf(e *examination.Examination) string {
	if e == nil {
		return ""
	}
	return e.Assessment()
}

func examDate(e *examination.Examination) string {
	if e == nil {
		return notRecorded
	}
	return e.ExamDate.Format(dateLayout)
}

func examType(e *examination.Examination) string {
	if e == nil {
		return notRecorded
	}
	return string(e.ExamType)
}

func examiner(e *examination.Examination) string {
	if e == nil {
		return notRecorded
	}
	return orDefault(e.Examiner, notRecorded)
}

func mrpDate(e *examination.Examination) string {
	if e == nil || e.MRPDate == nil {
		return "-"
	}
	return e.MRPDate.Format(dateLayout)
}

func employmentDuration(r *EmployeeReport) string {
	if r.Employment == nil {
		return ""
	}
	return r.Employment.EmploymentDuration
}

func exposureDuration(r *EmployeeReport) string {
	if r.Employment == nil {
		return ""
	}
	return r.Employment.ExposureDuration
}

func exposureIncident(r *EmployeeReport) string {
	if r.Employment == nil {
		return ""
	}
	return r.Employment.ChemicalExposureIncident
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
