package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ohs/ohs/internal/report/document"
)

func TestXLSX_Render(t *testing.T) {
	out, err := NewXLSX().Render(sampleDocument(t, 2))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"MEDICAL SURVEILLANCE SUMMARY", "SUMMARY"}, f.GetSheetList())

	rows, err := f.GetRows("MEDICAL SURVEILLANCE SUMMARY")
	require.NoError(t, err)
	assert.Equal(t, "MEDICAL SURVEILLANCE SUMMARY", rows[0][0])

	var header, first []string
	for i, r := range rows {
		if len(r) > 0 && r[0] == "No." {
			header, first = r, rows[i+1]
		}
	}
	assert.Equal(t, []string{"No.", "Date", "Symptoms", "Fitness"}, header)
	assert.Equal(t, "Not Fit", first[3])

	summary, err := f.GetRows("SUMMARY")
	require.NoError(t, err)
	var cells []string
	for _, r := range summary {
		cells = append(cells, r...)
	}
	assert.Contains(t, cells, "No abnormal findings")
	assert.Contains(t, cells, "Dr. Tan")
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"sheet1": true}
	page := func(title string) document.Page {
		return document.Page{Blocks: []document.Block{&document.Heading{Title: title}}}
	}

	assert.Equal(t, "SUMMARY", sheetName(page("SUMMARY"), 0, used))
	assert.Equal(t, "Summary (2)", sheetName(page("Summary"), 1, used))
	assert.Equal(t, "Page 3", sheetName(document.Page{}, 2, used))
	assert.Equal(t, "A B", sheetName(page("A/B"), 3, used))
	assert.Len(t, sheetName(page("ABNORMAL WORKER SUMMARY FOR ACME CORPORATION"), 4, used), maxSheetName)
}
