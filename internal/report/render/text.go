package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ohs/ohs/internal/report/document"
)

// Text renders a plain-text preview for terminals. Colour follows the
// fatih/color NoColor setting.
type Text struct{}

func NewText() *Text { return &Text{} }

func (*Text) ContentType() string { return "text/plain; charset=utf-8" }
func (*Text) Extension() string   { return "txt" }

func (t *Text) Render(doc *document.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, renderErr("text", err)
	}

	title := color.New(color.Bold, color.FgCyan).SprintFunc()
	label := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	var buf bytes.Buffer
	for i, page := range doc.Pages {
		if i > 0 {
			fmt.Fprintf(&buf, "\n%s\n\n", faint(strings.Repeat("-", 72)))
		}
		for _, b := range page.Blocks {
			switch v := b.(type) {
			case *document.Image:
				fmt.Fprintf(&buf, "%s\n\n", faint(fmt.Sprintf("[%s image, %d bytes]", v.Extension, len(v.Data))))
			case *document.Heading:
				fmt.Fprintln(&buf, title(v.Title))
				if v.Subtitle != "" {
					fmt.Fprintln(&buf, faint(v.Subtitle))
				}
				buf.WriteByte('\n')
			case *document.Fields:
				if v.Caption != "" {
					fmt.Fprintln(&buf, title(v.Caption))
				}
				for _, r := range v.Rows {
					fmt.Fprintf(&buf, "  %s: %s\n", label(r.Label), r.Value)
				}
				buf.WriteByte('\n')
			case *document.Lines:
				fmt.Fprintln(&buf, label(v.Label))
				for _, line := range v.Lines {
					fmt.Fprintf(&buf, "  %s\n", line)
				}
				buf.WriteByte('\n')
			case *document.Table:
				if v.Caption != "" {
					fmt.Fprintln(&buf, title(v.Caption))
				}
				table := tablewriter.NewWriter(&buf)
				table.SetHeader(v.Columns)
				table.SetAutoWrapText(true)
				table.SetRowLine(true)
				table.AppendBulk(v.Rows)
				table.Render()
				buf.WriteByte('\n')
			case *document.Paragraph:
				text := v.Text
				if v.Bold {
					text = color.New(color.Bold).Sprint(text)
				}
				fmt.Fprintf(&buf, "%s\n\n", text)
			case *document.Signature:
				fmt.Fprintf(&buf, "  ____________________\n  %s\n", v.Name)
				if v.Role != "" {
					fmt.Fprintf(&buf, "  %s\n", v.Role)
				}
				if v.Date != "" {
					fmt.Fprintf(&buf, "  Date: %s\n", v.Date)
				}
				buf.WriteByte('\n')
			case *document.Footer:
				fmt.Fprintln(&buf, faint(v.Text))
			}
		}
	}
	return buf.Bytes(), nil
}
