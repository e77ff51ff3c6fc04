package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/ohs/ohs/internal/report/document"
	"github.com/ohs/ohs/internal/report/render"
)

// ErrUnknownKind is returned for a Request.Kind outside the Kind constants.
var ErrUnknownKind = errors.New("unknown report kind")

// Request names one report. SubjectID is used by the certificate and the
// employee summary, Company by the abnormal summary.
type Request struct {
	Kind      string
	SubjectID int64
	Company   string
	Options   Options
}

// Output is a rendered report ready to stream.
type Output struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Generator runs the aggregate, compose and render pipeline synchronously.
// Nothing is cached between calls.
type Generator struct {
	aggregator *Aggregator
	composer   *Composer
	renderers  *render.Registry
}

func NewGenerator(aggregator *Aggregator, composer *Composer, renderers *render.Registry) *Generator {
	return &Generator{aggregator: aggregator, composer: composer, renderers: renderers}
}

// Compose builds the document tree for req. It returns either a complete
// tree or an error, never both.
func (g *Generator) Compose(ctx context.Context, req Request) (*document.Document, error) {
	switch req.Kind {
	case KindCertificate, KindEmployeeSummary:
		r, err := g.aggregator.BuildEmployeeReport(ctx, req.SubjectID)
		if err != nil {
			return nil, err
		}
		if req.Kind == KindCertificate {
			return g.composer.Certificate(ctx, r, req.Options)
		}
		return g.composer.EmployeeSummary(ctx, r, req.Options)
	case KindAbnormalSummary:
		r, err := g.aggregator.BuildCompanyAbnormalReport(ctx, req.Company)
		if err != nil {
			return nil, err
		}
		return g.composer.CompanySummary(ctx, r, req.Options)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
}

// Generate composes req and renders it in format ("" for the default). The
// format is checked before any record is read.
func (g *Generator) Generate(ctx context.Context, req Request, format string) (*Output, error) {
	renderer, err := g.renderers.Lookup(format)
	if err != nil {
		return nil, err
	}
	doc, err := g.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	return RenderDocument(doc, renderer)
}

// RenderDocument renders a composed tree and attaches the file extension.
func RenderDocument(doc *document.Document, renderer render.Renderer) (*Output, error) {
	data, err := renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	return &Output{
		Filename:    doc.Filename + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
