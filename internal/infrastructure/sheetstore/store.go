package sheetstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// Backend turlari
const (
	BackendHTTP   = "http"
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"
)

// Options SHEET_BACKEND bo'yicha store tanlash
type Options struct {
	Backend       string
	HTTP          HTTPConfig
	Google        GoogleConfig
	XLSXPath      string
	AttachmentDir string
}

// New tanlangan backend ni yaratadi
func New(ctx context.Context, opts Options, log *zap.Logger) (repository.SheetRepository, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendHTTP:
		return NewHTTPStore(opts.HTTP, log)
	case BackendGoogle:
		return NewGoogleStore(ctx, opts.Google, log)
	case BackendXLSX:
		return NewXLSXStore(opts.XLSXPath, opts.AttachmentDir, log)
	}
	return nil, fmt.Errorf("unknown SHEET_BACKEND %q (http|google|xlsx)", opts.Backend)
}
