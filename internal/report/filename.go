package report

import (
	"regexp"
	"strings"
	"time"
)

// Report kinds, also the first component of download filenames.
const (
	KindCertificate     = "Certificate"
	KindEmployeeSummary = "EmployeeSummary"
	KindAbnormalSummary = "AbnormalSummary"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename builds "{kind}_{name}_{YYYY-MM-DD}" without extension. The name
// is reduced to characters that are safe in file systems and in a quoted
// Content-Disposition header.
func Filename(kind, name string, date time.Time) string {
	safe := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	safe = strings.Trim(safe, "._-")
	if safe == "" {
		safe = "Unnamed"
	}
	if len(safe) > 80 {
		safe = safe[:80]
	}
	return kind + "_" + safe + "_" + date.Format("2006-01-02")
}
