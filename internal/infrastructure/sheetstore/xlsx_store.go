package sheetstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// XLSXStore lokal workbook: offline ishlash va testlar uchun.
// Har bir operatsiya faylni ochadi va saqlaydi.
type XLSXStore struct {
	path          string
	attachmentDir string
	mu            sync.Mutex
	log           *zap.Logger
}

var _ repository.SheetRepository = (*XLSXStore)(nil)

// NewXLSXStore fayl bo'lmasa bo'sh workbook yaratadi
func NewXLSXStore(path, attachmentDir string, log *zap.Logger) (*XLSXStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("XLSX_PATH yo'q")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, err
			}
		}
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create workbook: %w", err)
		}
		_ = f.Close()
	}
	if attachmentDir == "" {
		attachmentDir = filepath.Join(filepath.Dir(path), "attachments")
	}
	return &XLSXStore{path: path, attachmentDir: attachmentDir, log: log.Named("xlsx_store")}, nil
}

func (s *XLSXStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}

func ensureSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	_, err = f.NewSheet(sheet)
	return err
}

// GetAll barcha qatorlar; bo'sh qatorlar ham pozitsiyani saqlash uchun qaytadi
func (s *XLSXStore) GetAll(ctx context.Context, sheet string) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("getAll %s: sheet not found", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("getAll %s: %w", sheet, err)
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		cells := make([]any, len(r))
		for j, c := range r {
			cells[j] = c
		}
		out[i] = cells
	}
	return out, nil
}

func (s *XLSXStore) writeRow(f *excelize.File, sheet string, rowIndex int, row []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	values := make([]any, len(row))
	copy(values, row)
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *XLSXStore) lastRow(f *excelize.File, sheet string) (int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Update qatorni to'liq qayta yozadi; massivdan uzun eski kataklar tozalanadi
func (s *XLSXStore) Update(ctx context.Context, sheet string, rowIndex int, row []any) error {
	if rowIndex < 1 {
		return fmt.Errorf("update %s: invalid row %d", sheet, rowIndex)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	cols, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	full := row
	if rowIndex <= len(cols) && len(cols[rowIndex-1]) > len(row) {
		full = make([]any, len(cols[rowIndex-1]))
		for i := range full {
			full[i] = ""
		}
		copy(full, row)
	}
	if err := s.writeRow(f, sheet, rowIndex, full); err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, rowIndex, err)
	}
	return f.Save()
}

// Insert oxirgi band qatordan keyin yozadi
func (s *XLSXStore) Insert(ctx context.Context, sheet string, row []any) error {
	return s.BatchInsert(ctx, sheet, [][]any{row}, 0)
}

// BatchInsert startRow <= 0 bo'lsa oxiriga qo'shadi
func (s *XLSXStore) BatchInsert(ctx context.Context, sheet string, rows [][]any, startRow int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if startRow <= 0 {
		last, err := s.lastRow(f, sheet)
		if err != nil {
			return err
		}
		startRow = last + 1
	}
	for i, r := range rows {
		if err := s.writeRow(f, sheet, startRow+i, r); err != nil {
			return fmt.Errorf("insert %s row %d: %w", sheet, startRow+i, err)
		}
	}
	return f.Save()
}

// UploadFile faylni attachments papkasiga saqlaydi va file:// URL qaytaradi
func (s *XLSXStore) UploadFile(ctx context.Context, file entity.Attachment) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("upload %s: empty file", file.FileName)
	}
	dir := s.attachmentDir
	if file.FolderID != "" {
		dir = filepath.Join(dir, filepath.Base(file.FolderID))
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s_%s", time.Now().Format("20060102150405"), uuid.NewString()[:8], filepath.Base(file.FileName))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("upload %s: %w", file.FileName, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s.log.Info("attachment saved", zap.String("path", abs))
	return "file://" + filepath.ToSlash(abs), nil
}
