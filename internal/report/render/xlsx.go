package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ohs/ohs/internal/report/document"
)

const maxSheetName = 31

// XLSX renders each page as a worksheet. Images are not carried over: a
// spreadsheet export holds the report data, not the letterhead.
type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (*XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (*XLSX) Extension() string { return "xlsx" }

type xlsxStyles struct {
	title, subtitle, bold, header, cell, footer int
}

func (x *XLSX) Render(doc *document.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, renderErr("xlsx", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, renderErr("xlsx", err)
	}

	used := map[string]bool{"sheet1": true}
	for i, page := range doc.Pages {
		name := sheetName(page, i, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, renderErr("xlsx", fmt.Errorf("create sheet %q: %w", name, err))
		}
		sw := &sheetWriter{f: f, sheet: name, styles: styles, row: 1, widths: []float64{28, 50}}
		for _, b := range page.Blocks {
			if err := sw.block(b); err != nil {
				return nil, renderErr("xlsx", fmt.Errorf("sheet %q: %w", name, err))
			}
		}
		if err := sw.applyWidths(); err != nil {
			return nil, renderErr("xlsx", err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, renderErr("xlsx", err)
	}
	f.SetActiveSheet(0)

	props := &excelize.DocProperties{Title: doc.Title, Creator: "ohs"}
	if !doc.GeneratedAt.IsZero() {
		props.Created = doc.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if err := f.SetDocProps(props); err != nil {
		return nil, renderErr("xlsx", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, renderErr("xlsx", err)
	}
	return buf.Bytes(), nil
}

func newXLSXStyles(f *excelize.File) (*xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 14}},
		{Font: &excelize.Font{Italic: true, Size: 9}},
		{Font: &excelize.Font{Bold: true}},
		{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		},
		{
			Border:    border,
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		},
		{Font: &excelize.Font{Italic: true, Size: 8, Color: "#666666"}},
	}
	s := &xlsxStyles{}
	targets := []*int{&s.title, &s.subtitle, &s.bold, &s.header, &s.cell, &s.footer}
	for i, style := range defs {
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, fmt.Errorf("create style: %w", err)
		}
		*targets[i] = id
	}
	return s, nil
}

// sheetName uses the page's first heading, made unique and valid for Excel.
func sheetName(page document.Page, index int, used map[string]bool) string {
	name := ""
	for _, b := range page.Blocks {
		if h, ok := b.(*document.Heading); ok {
			name = h.Title
			break
		}
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return ' '
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Page %d", index+1)
	}
	if len(name) > maxSheetName {
		name = strings.TrimSpace(name[:maxSheetName])
	}
	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		name = base + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles *xlsxStyles
	row    int
	widths []float64
	frozen bool
}

func (w *sheetWriter) set(col int, value string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	if style != 0 {
		return w.f.SetCellStyle(w.sheet, cell, cell, style)
	}
	return nil
}

func (w *sheetWriter) block(b document.Block) error {
	switch v := b.(type) {
	case *document.Heading:
		if err := w.set(1, v.Title, w.styles.title); err != nil {
			return err
		}
		w.row++
		if v.Subtitle != "" {
			if err := w.set(1, v.Subtitle, w.styles.subtitle); err != nil {
				return err
			}
			w.row++
		}
	case *document.Fields:
		if v.Caption != "" {
			if err := w.set(1, v.Caption, w.styles.bold); err != nil {
				return err
			}
			w.row++
		}
		for _, r := range v.Rows {
			if err := w.set(1, r.Label, w.styles.bold); err != nil {
				return err
			}
			if err := w.set(2, r.Value, 0); err != nil {
				return err
			}
			w.row++
		}
	case *document.Lines:
		if err := w.set(1, v.Label, w.styles.bold); err != nil {
			return err
		}
		for _, line := range v.Lines {
			if err := w.set(2, line, 0); err != nil {
				return err
			}
			w.row++
		}
	case *document.Table:
		if err := w.table(v); err != nil {
			return err
		}
	case *document.Paragraph:
		style := 0
		if v.Bold {
			style = w.styles.bold
		}
		if err := w.set(1, v.Text, style); err != nil {
			return err
		}
		w.row++
	case *document.Signature:
		for _, f := range []document.Field{{Label: "Signed by", Value: v.Name}, {Label: "Role", Value: v.Role}, {Label: "Date", Value: v.Date}} {
			if f.Value == "" {
				continue
			}
			if err := w.set(1, f.Label, w.styles.bold); err != nil {
				return err
			}
			if err := w.set(2, f.Value, 0); err != nil {
				return err
			}
			w.row++
		}
	case *document.Footer:
		if err := w.set(1, v.Text, w.styles.footer); err != nil {
			return err
		}
		w.row++
	case *document.Image:
		return nil
	}
	w.row++
	return nil
}

func (w *sheetWriter) table(t *document.Table) error {
	if t.Caption != "" {
		if err := w.set(1, t.Caption, w.styles.bold); err != nil {
			return err
		}
		w.row++
	}
	for i, col := range t.Columns {
		if err := w.set(i+1, col, w.styles.header); err != nil {
			return err
		}
	}
	if !w.frozen {
		top, err := excelize.CoordinatesToCellName(1, w.row+1)
		if err != nil {
			return err
		}
		if err := w.f.SetPanes(w.sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      w.row,
			TopLeftCell: top,
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze panes: %w", err)
		}
		w.frozen = true
	}
	w.row++

	for _, cells := range t.Rows {
		for i, c := range cells {
			if err := w.set(i+1, c, w.styles.cell); err != nil {
				return err
			}
		}
		w.row++
	}

	for i, width := range columnWidths(t, 14*float64(len(t.Columns))) {
		w.widen(i, width)
	}
	return nil
}

func (w *sheetWriter) widen(col int, width float64) {
	for len(w.widths) <= col {
		w.widths = append(w.widths, 0)
	}
	if width > w.widths[col] {
		w.widths[col] = width
	}
}

func (w *sheetWriter) applyWidths() error {
	for i, width := range w.widths {
		if width <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
