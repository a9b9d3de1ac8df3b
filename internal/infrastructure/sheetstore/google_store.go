package sheetstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleConfig Sheets/Drive API sozlamalari
type GoogleConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	DriveFolderID   string
}

// GoogleStore to'g'ridan-to'g'ri Google Sheets API orqali ishlaydi
type GoogleStore struct {
	cfg    GoogleConfig
	sheets *sheets.Service
	drive  *drive.Service
	log    *zap.Logger
}

var _ repository.SheetRepository = (*GoogleStore)(nil)

// NewGoogleStore service account fayli bilan ulanish
func NewGoogleStore(ctx context.Context, cfg GoogleConfig, log *zap.Logger) (*GoogleStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID yo'q")
	}
	if strings.TrimSpace(cfg.CredentialsFile) == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_FILE yo'q")
	}
	opts := []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
	sheetsSrv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	driveSrv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GoogleStore{cfg: cfg, sheets: sheetsSrv, drive: driveSrv, log: log.Named("google_store")}, nil
}

// GetAll butun sheet qiymatlari (formatlanmagan)
func (s *GoogleStore) GetAll(ctx context.Context, sheet string) ([][]any, error) {
	resp, err := s.sheets.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, quoteSheet(sheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getAll %s: %w", sheet, err)
	}
	return resp.Values, nil
}

// Update rowIndex qatorni A ustunidan boshlab yozadi
func (s *GoogleStore) Update(ctx context.Context, sheet string, rowIndex int, row []any) error {
	rng := fmt.Sprintf("%s!A%d", quoteSheet(sheet), rowIndex)
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.sheets.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, rowIndex, err)
	}
	return nil
}

// Insert oxiriga qo'shadi
func (s *GoogleStore) Insert(ctx context.Context, sheet string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.sheets.Spreadsheets.Values.Append(s.cfg.SpreadsheetID, quoteSheet(sheet), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert %s: %w", sheet, err)
	}
	return nil
}

// BatchInsert startRow dan boshlab yozadi; startRow <= 0 bo'lsa append
func (s *GoogleStore) BatchInsert(ctx context.Context, sheet string, rows [][]any, startRow int) error {
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: rows}
	var err error
	if startRow > 0 {
		rng := fmt.Sprintf("%s!A%d", quoteSheet(sheet), startRow)
		_, err = s.sheets.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
	} else {
		_, err = s.sheets.Spreadsheets.Values.Append(s.cfg.SpreadsheetID, quoteSheet(sheet), vr).
			ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	}
	if err != nil {
		return fmt.Errorf("batchInsert %s: %w", sheet, err)
	}
	return nil
}

// UploadFile Drive ga yuklaydi va webViewLink qaytaradi
func (s *GoogleStore) UploadFile(ctx context.Context, file entity.Attachment) (string, error) {
	folder := strings.TrimSpace(file.FolderID)
	if folder == "" {
		folder = s.cfg.DriveFolderID
	}
	meta := &drive.File{Name: file.FileName, MimeType: mimeOrDefault(file)}
	if folder != "" {
		meta.Parents = []string{folder}
	}
	created, err := s.drive.Files.Create(meta).
		Media(bytes.NewReader(file.Data)).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", file.FileName, err)
	}
	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id), nil
}

// quoteSheet A1 notation uchun sheet nomini qo'shtirnoqqa oladi
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
