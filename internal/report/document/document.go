// Package document is the format-independent tree that report composers
// build and renderers consume. A Document is complete when it reaches a
// renderer: composers never hand over a partial tree.
package document

import "time"

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Layout is the page geometry. Sizes are in millimetres.
type Layout struct {
	PageSize    string
	Orientation Orientation
	MarginMM    float64
}

var (
	// CertificateLayout is a single portrait A4 page.
	CertificateLayout = Layout{PageSize: "A4", Orientation: Portrait, MarginMM: 15}
	// SummaryLayout is landscape A4: a data page and a narrative page.
	SummaryLayout = Layout{PageSize: "A4", Orientation: Landscape, MarginMM: 12}
)

type Document struct {
	Title       string
	Filename    string
	Layout      Layout
	GeneratedAt time.Time
	Pages       []Page
}

// Page is rendered on a fresh physical page. Renderers may spill a long
// table onto further pages.
type Page struct {
	Blocks []Block
}

// Block is one node of a page. The concrete types below are the complete
// set; renderers switch on them.
type Block interface {
	block()
}

// Image is an embedded raster (header letterhead or signature).
type Image struct {
	Data      []byte
	Extension string
	// WidthMM of zero means full content width.
	WidthMM float64
}

// Heading is a title with an optional subtitle, e.g. the legal reference.
type Heading struct {
	Title    string
	Subtitle string
}

type Field struct {
	Label string
	Value string
}

// Fields is a two-column label/value list.
type Fields struct {
	Caption string
	Rows    []Field
}

// Lines is a labelled run of lines printed as-is, e.g. an address.
type Lines struct {
	Label string
	Lines []string
}

// Table is a header row plus data rows. Widths are relative weights, one
// per column; nil means equal widths.
type Table struct {
	Caption string
	Columns []string
	Widths  []float64
	Rows    [][]string
}

type Paragraph struct {
	Text string
	Bold bool
}

// Signature is the signing block of a certificate. Image may be nil.
type Signature struct {
	Image *Image
	Name  string
	Role  string
	Date  string
}

type Footer struct {
	Text string
}

func (*Image) block()     {}
func (*Heading) block()   {}
func (*Fields) block()    {}
func (*Lines) block()     {}
func (*Table) block()     {}
func (*Paragraph) block() {}
func (*Signature) block() {}
func (*Footer) block()    {}
