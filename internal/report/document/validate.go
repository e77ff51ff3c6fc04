package document

import (
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed document")

// Validate checks the structural rules renderers rely on.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrMalformed)
	}
	if d.Filename == "" {
		return fmt.Errorf("%w: missing filename", ErrMalformed)
	}
	if len(d.Pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrMalformed)
	}
	for p, page := range d.Pages {
		for b, blk := range page.Blocks {
			switch v := blk.(type) {
			case nil:
				return fmt.Errorf("%w: page %d block %d is nil", ErrMalformed, p+1, b+1)
			case *Table:
				if len(v.Columns) == 0 {
					return fmt.Errorf("%w: page %d table without columns", ErrMalformed, p+1)
				}
				if v.Widths != nil && len(v.Widths) != len(v.Columns) {
					return fmt.Errorf("%w: page %d table has %d widths for %d columns", ErrMalformed, p+1, len(v.Widths), len(v.Columns))
				}
				for r, row := range v.Rows {
					if len(row) != len(v.Columns) {
						return fmt.Errorf("%w: page %d table row %d has %d cells, want %d", ErrMalformed, p+1, r+1, len(row), len(v.Columns))
					}
				}
			case *Image:
				if len(v.Data) == 0 {
					return fmt.Errorf("%w: page %d image without data", ErrMalformed, p+1)
				}
			}
		}
	}
	return nil
}
