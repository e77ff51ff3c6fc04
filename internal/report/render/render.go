// Package render turns document trees into binaries. Every renderer
// validates the tree first and reports failures wrapped in ErrRender.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ohs/ohs/internal/report/document"
)

var (
	ErrRender        = errors.New("render failed")
	ErrUnknownFormat = errors.New("unknown report format")
)

// Renderer produces one output format.
type Renderer interface {
	Render(doc *document.Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Registry maps format names (e.g. "pdf") to renderers.
type Registry struct {
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry registers the given renderers under their extensions. The
// first one is used when no format is requested.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for i, rd := range renderers {
		if i == 0 {
			r.fallback = rd.Extension()
		}
		r.renderers[rd.Extension()] = rd
	}
	return r
}

// DefaultRegistry serves PDF, the default, and XLSX.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPDF(), NewXLSX())
}

// Lookup resolves a format name case-insensitively; "" selects the default.
func (r *Registry) Lookup(format string) (Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = r.fallback
	}
	rd, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return rd, nil
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func renderErr(format string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRender, format, err)
}

// columnWidths spreads total across the columns by relative weight.
func columnWidths(t *document.Table, total float64) []float64 {
	n := len(t.Columns)
	out := make([]float64, n)
	if len(t.Widths) != n {
		for i := range out {
			out[i] = total / float64(n)
		}
		return out
	}
	var sum float64
	for _, w := range t.Widths {
		sum += w
	}
	for i, w := range t.Widths {
		out[i] = total * w / sum
	}
	return out
}
