package sheetstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrRejected store {success:false} qaytardi
var ErrRejected = errors.New("store rejected request")

// HTTPConfig action API sozlamalari
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPStore bitta base URL orqali sheet/action API
type HTTPStore struct {
	cfg    HTTPConfig
	client *http.Client
	log    *zap.Logger
}

var _ repository.SheetRepository = (*HTTPStore)(nil)

// NewHTTPStore yangi HTTP store yaratish
func NewHTTPStore(cfg HTTPConfig, log *zap.Logger) (*HTTPStore, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("SHEET_API_URL yo'q")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid SHEET_API_URL: %w", err)
	}
	cfg.BaseURL = base
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultStoreTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPStore{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.Named("http_store"),
	}, nil
}

type envelope struct {
	Success bool    `json:"success"`
	Data    [][]any `json:"data"`
	FileURL string  `json:"fileUrl"`
	URL     string  `json:"url"`
	Error   string  `json:"error"`
	Message string  `json:"message"`
}

func (e envelope) reason() string {
	switch {
	case strings.TrimSpace(e.Error) != "":
		return strings.TrimSpace(e.Error)
	case strings.TrimSpace(e.Message) != "":
		return strings.TrimSpace(e.Message)
	}
	return "success=false"
}

// GetAll GET ?sheet=<name>&action=getAll
func (s *HTTPStore) GetAll(ctx context.Context, sheet string) ([][]any, error) {
	q := url.Values{}
	q.Set("sheet", sheet)
	q.Set("action", "getAll")
	u := s.cfg.BaseURL
	if strings.Contains(u, "?") {
		u += "&" + q.Encode()
	} else {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var out envelope
	if err := s.do(req, &out); err != nil {
		return nil, fmt.Errorf("getAll %s: %w", sheet, err)
	}
	s.log.Debug("getAll", zap.String("sheet", sheet), zap.Int("rows", len(out.Data)))
	return out.Data, nil
}

// Update action=update, rowData butun qator
func (s *HTTPStore) Update(ctx context.Context, sheet string, rowIndex int, row []any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("action", "update")
	form.Set("sheetName", sheet)
	form.Set("rowIndex", strconv.Itoa(rowIndex))
	form.Set("rowData", string(data))
	if err := s.post(ctx, form, nil); err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, rowIndex, err)
	}
	return nil
}

// Insert action=insert
func (s *HTTPStore) Insert(ctx context.Context, sheet string, row []any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("action", "insert")
	form.Set("sheetName", sheet)
	form.Set("rowData", string(data))
	if err := s.post(ctx, form, nil); err != nil {
		return fmt.Errorf("insert %s: %w", sheet, err)
	}
	return nil
}

// BatchInsert action=batchInsert
func (s *HTTPStore) BatchInsert(ctx context.Context, sheet string, rows [][]any, startRow int) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("action", "batchInsert")
	form.Set("sheetName", sheet)
	form.Set("rowsData", string(data))
	form.Set("startRow", strconv.Itoa(startRow))
	if err := s.post(ctx, form, nil); err != nil {
		return fmt.Errorf("batchInsert %s: %w", sheet, err)
	}
	return nil
}

// UploadFile action=uploadFile, fayl base64 ko'rinishida
func (s *HTTPStore) UploadFile(ctx context.Context, file entity.Attachment) (string, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("upload %s: empty file", file.FileName)
	}
	if len(file.Data) > constants.MaxAttachmentSize {
		return "", fmt.Errorf("upload %s: file is larger than %d bytes", file.FileName, constants.MaxAttachmentSize)
	}
	form := url.Values{}
	form.Set("action", "uploadFile")
	form.Set("base64Data", base64.StdEncoding.EncodeToString(file.Data))
	form.Set("fileName", file.FileName)
	form.Set("mimeType", mimeOrDefault(file))
	form.Set("folderId", file.FolderID)
	var out envelope
	if err := s.post(ctx, form, &out); err != nil {
		return "", fmt.Errorf("upload %s: %w", file.FileName, err)
	}
	link := strings.TrimSpace(out.FileURL)
	if link == "" {
		link = strings.TrimSpace(out.URL)
	}
	if link == "" {
		return "", fmt.Errorf("upload %s: %w: no file url in response", file.FileName, ErrRejected)
	}
	return link, nil
}

func (s *HTTPStore) post(ctx context.Context, form url.Values, out *envelope) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if out == nil {
		out = &envelope{}
	}
	return s.do(req, out)
}

func (s *HTTPStore) do(req *http.Request, out *envelope) error {
	if strings.TrimSpace(s.cfg.APIKey) != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxErrorBodySize))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, constants.MaxResponseSize))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("json decode error: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrRejected, out.reason())
	}
	return nil
}

func mimeOrDefault(file entity.Attachment) string {
	if strings.TrimSpace(file.MimeType) != "" {
		return file.MimeType
	}
	return "application/octet-stream"
}
