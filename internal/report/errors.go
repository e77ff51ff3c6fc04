package report

import (
	"errors"

	"github.com/ohs/ohs/internal/domain/asset"
	"github.com/ohs/ohs/internal/report/render"
)

var (
	// ErrNotFound means the requested subject or company does not resolve.
	ErrNotFound = errors.New("report target not found")
	// ErrStorage means the record store or asset store failed. Callers log
	// the wrapped detail and show a generic message.
	ErrStorage = errors.New("report storage failure")
	// ErrAssetMissing is non-fatal: the header or signature block is omitted.
	ErrAssetMissing = asset.ErrMissing
	// ErrRender means the renderer could not produce the binary.
	ErrRender = render.ErrRender
)
