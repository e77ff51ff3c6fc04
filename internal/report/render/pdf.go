package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/ohs/ohs/internal/report/document"
)

const (
	fontFamily  = "Helvetica"
	footerSpace = 10.0
	lineHeight  = 5.0
	cellLine    = 4.0
	maxHeaderMM = 35.0
)

// PDF renders documents with the core Helvetica fonts. Text outside
// Windows-1252 is replaced with "?".
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

func (*PDF) ContentType() string { return "application/pdf" }
func (*PDF) Extension() string   { return "pdf" }

func (p *PDF) Render(doc *document.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, renderErr("pdf", err)
	}

	orientation := "P"
	if doc.Layout.Orientation == document.Landscape {
		orientation = "L"
	}
	size := doc.Layout.PageSize
	if size == "" {
		size = "A4"
	}
	margin := doc.Layout.MarginMM

	pdf := fpdf.New(orientation, "mm", size, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+footerSpace)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("ohs", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}

	pageW, pageH := pdf.GetPageSize()
	w := &pdfWriter{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		left:         margin,
		contentWidth: pageW - 2*margin,
		pageBottom:   pageH - margin - footerSpace,
		footerY:      pageH - margin - lineHeight,
		margin:       margin,
		images:       map[string]*fpdf.ImageInfoType{},
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, b := range page.Blocks {
			w.block(b)
			if pdf.Err() {
				return nil, renderErr("pdf", pdf.Error())
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, renderErr("pdf", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	left         float64
	contentWidth float64
	pageBottom   float64
	footerY      float64
	margin       float64
	images       map[string]*fpdf.ImageInfoType
}

func (w *pdfWriter) block(b document.Block) {
	switch v := b.(type) {
	case *document.Image:
		w.image(v, maxHeaderMM)
		w.pdf.Ln(3)
	case *document.Heading:
		w.heading(v)
	case *document.Fields:
		w.fields(v)
	case *document.Lines:
		w.lines(v)
	case *document.Table:
		w.table(v)
	case *document.Paragraph:
		w.paragraph(v)
	case *document.Signature:
		w.signature(v)
	case *document.Footer:
		w.footer(v)
	}
}

// text clamps s to runes the core fonts can measure and translates it to
// the font encoding.
func (w *pdfWriter) text(s string) string {
	return w.tr(latin1(s))
}

func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}

func imageType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "JPG"
	default:
		return strings.ToUpper(ext)
	}
}

func (w *pdfWriter) image(img *document.Image, maxHeight float64) {
	sum := sha256.Sum256(img.Data)
	name := hex.EncodeToString(sum[:8])
	opts := fpdf.ImageOptions{ImageType: imageType(img.Extension), ReadDpi: true}

	info, ok := w.images[name]
	if !ok {
		info = w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if w.pdf.Err() || info == nil || info.Width() == 0 {
			return
		}
		w.images[name] = info
	}

	width := img.WidthMM
	if width <= 0 || width > w.contentWidth {
		width = w.contentWidth
	}
	height := width * info.Height() / info.Width()
	if height > maxHeight {
		height = maxHeight
		width = height * info.Width() / info.Height()
	}
	x := w.left
	if img.WidthMM <= 0 {
		x = w.left + (w.contentWidth-width)/2
	}
	w.pdf.ImageOptions(name, x, w.pdf.GetY(), width, height, true, opts, 0, "")
}

func (w *pdfWriter) heading(h *document.Heading) {
	w.pdf.SetFont(fontFamily, "B", 14)
	w.pdf.CellFormat(w.contentWidth, 8, w.text(h.Title), "", 1, "C", false, 0, "")
	if h.Subtitle != "" {
		w.pdf.SetFont(fontFamily, "I", 9)
		w.pdf.MultiCell(w.contentWidth, 4.5, w.text(h.Subtitle), "", "C", false)
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) caption(text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(fontFamily, "B", 11)
	w.pdf.CellFormat(w.contentWidth, 6, w.text(text), "B", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

func (w *pdfWriter) fields(f *document.Fields) {
	w.caption(f.Caption)
	labelWidth := w.contentWidth * 0.3
	for _, row := range f.Rows {
		w.pdf.SetFont(fontFamily, "B", 9)
		w.pdf.CellFormat(labelWidth, lineHeight, w.text(row.Label), "", 0, "L", false, 0, "")
		w.pdf.SetFont(fontFamily, "", 9)
		w.pdf.MultiCell(w.contentWidth-labelWidth, lineHeight, w.text(row.Value), "", "L", false)
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) lines(l *document.Lines) {
	if l.Label != "" {
		w.pdf.SetFont(fontFamily, "B", 9)
		w.pdf.CellFormat(w.contentWidth, lineHeight, w.text(l.Label), "", 1, "L", false, 0, "")
	}
	w.pdf.SetFont(fontFamily, "", 9)
	for _, line := range l.Lines {
		w.pdf.CellFormat(w.contentWidth, lineHeight, w.text(line), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) paragraph(p *document.Paragraph) {
	style := ""
	if p.Bold {
		style = "B"
	}
	w.pdf.SetFont(fontFamily, style, 10)
	w.pdf.MultiCell(w.contentWidth, lineHeight, w.text(p.Text), "", "L", false)
	w.pdf.Ln(3)
}

func (w *pdfWriter) table(t *document.Table) {
	w.caption(t.Caption)
	widths := columnWidths(t, w.contentWidth)

	header := func() {
		w.pdf.SetFont(fontFamily, "B", 8)
		w.pdf.SetFillColor(230, 230, 230)
		w.row(t.Columns, widths, true)
		w.pdf.SetFont(fontFamily, "", 8)
	}
	header()
	for _, cells := range t.Rows {
		wrapped, h := w.wrap(cells, widths)
		if w.pdf.GetY()+h > w.pageBottom {
			w.pdf.AddPage()
			header()
		}
		w.drawRow(wrapped, widths, h, false)
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) row(cells []string, widths []float64, fill bool) {
	wrapped, h := w.wrap(cells, widths)
	w.drawRow(wrapped, widths, h, fill)
}

// wrap splits every cell to its column width and returns the row height.
// SplitText measures runes, so cells are clamped before splitting and
// translated after.
func (w *pdfWriter) wrap(cells []string, widths []float64) ([][]string, float64) {
	out := make([][]string, len(cells))
	most := 1
	for i, c := range cells {
		lines := w.pdf.SplitText(latin1(c), widths[i]-1)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for j := range lines {
			lines[j] = w.tr(lines[j])
		}
		out[i] = lines
		if len(lines) > most {
			most = len(lines)
		}
	}
	return out, float64(most)*cellLine + 2
}

func (w *pdfWriter) drawRow(cells [][]string, widths []float64, h float64, fill bool) {
	style := "D"
	if fill {
		style = "FD"
	}
	x, y := w.left, w.pdf.GetY()
	for i, lines := range cells {
		w.pdf.Rect(x, y, widths[i], h, style)
		for j, line := range lines {
			w.pdf.SetXY(x, y+1+float64(j)*cellLine)
			w.pdf.CellFormat(widths[i], cellLine, line, "", 0, "L", false, 0, "")
		}
		x += widths[i]
	}
	w.pdf.SetXY(w.left, y+h)
}

func (w *pdfWriter) signature(s *document.Signature) {
	w.pdf.Ln(6)
	if s.Image != nil {
		w.image(s.Image, 25)
	} else {
		w.pdf.Ln(15)
	}
	y := w.pdf.GetY()
	w.pdf.Line(w.left, y, w.left+60, y)
	w.pdf.Ln(1)
	w.pdf.SetFont(fontFamily, "B", 9)
	w.pdf.CellFormat(w.contentWidth, lineHeight, w.text(s.Name), "", 1, "L", false, 0, "")
	w.pdf.SetFont(fontFamily, "", 9)
	if s.Role != "" {
		w.pdf.CellFormat(w.contentWidth, lineHeight, w.text(s.Role), "", 1, "L", false, 0, "")
	}
	if s.Date != "" {
		w.pdf.CellFormat(w.contentWidth, lineHeight, w.text("Date: "+s.Date), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(3)
}

// footer is pinned to the bottom of the current page, below the auto page
// break line.
func (w *pdfWriter) footer(f *document.Footer) {
	w.pdf.SetAutoPageBreak(false, 0)
	w.pdf.SetFont(fontFamily, "I", 8)
	w.pdf.SetXY(w.left, w.footerY)
	w.pdf.CellFormat(w.contentWidth, lineHeight, w.text(f.Text), "T", 0, "C", false, 0, "")
	w.pdf.SetAutoPageBreak(true, w.margin+footerSpace)
}
