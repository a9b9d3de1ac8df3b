package repository

import (
	"context"

	"github.com/yourusername/po-workflow/internal/domain/entity"
)

// SheetRepository tashqi spreadsheet store bilan ishlash uchun interface.
// Store faqat butun qatorni qayta yozishni biladi.
type SheetRepository interface {
	// GetAll butun sheetni (header qatorlari bilan) qaytaradi
	GetAll(ctx context.Context, sheet string) ([][]any, error)

	// Update rowIndex (1-based) qatorni berilgan massiv bilan to'liq almashtiradi
	Update(ctx context.Context, sheet string, rowIndex int, row []any) error

	// Insert oxiriga bitta qator qo'shadi
	Insert(ctx context.Context, sheet string, row []any) error

	// BatchInsert startRow dan boshlab bir nechta qator qo'shadi
	BatchInsert(ctx context.Context, sheet string, rows [][]any, startRow int) error

	// UploadFile faylni yuklaydi va ochiq URL qaytaradi
	UploadFile(ctx context.Context, file entity.Attachment) (string, error)
}
