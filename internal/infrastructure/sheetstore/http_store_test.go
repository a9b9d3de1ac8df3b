package sheetstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yourusername/po-workflow/internal/domain/entity"
)

func newTestHTTPStore(t *testing.T, h http.HandlerFunc) *HTTPStore {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, err := NewHTTPStore(HTTPConfig{BaseURL: srv.URL, APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("NewHTTPStore() = %v", err)
	}
	return s
}

func TestHTTPStoreGetAll(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Query().Get("sheet") != "INDENT" || r.URL.Query().Get("action") != "getAll" {
			t.Fatalf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-API-Key") != "k" {
			t.Fatalf("missing api key header")
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[["h1","h2"],["2024-03-05","IN-1",100]]}`))
	})
	rows, err := s.GetAll(context.Background(), "INDENT")
	if err != nil {
		t.Fatalf("GetAll() = %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "IN-1" {
		t.Fatalf("rows = %v", rows)
	}
	if n, ok := rows[1][2].(json.Number); !ok || n.String() != "100" {
		t.Fatalf("number cell = %#v, want json.Number 100", rows[1][2])
	}
}

func TestHTTPStoreUpdateSendsFullRow(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("action") != "update" || r.PostForm.Get("sheetName") != "INDENT" || r.PostForm.Get("rowIndex") != "9" {
			t.Fatalf("form = %v", r.PostForm)
		}
		var row []any
		if err := json.Unmarshal([]byte(r.PostForm.Get("rowData")), &row); err != nil {
			t.Fatalf("rowData: %v", err)
		}
		if len(row) != 3 || row[2] != "x" {
			t.Fatalf("rowData = %v", row)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	if err := s.Update(context.Background(), "INDENT", 9, []any{"", "", "x"}); err != nil {
		t.Fatalf("Update() = %v", err)
	}
}

func TestHTTPStoreInsertSendsRowData(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("action") != "insert" || r.PostForm.Get("sheetName") != "LIFT" {
			t.Fatalf("form = %v", r.PostForm)
		}
		if r.PostForm.Has("rowIndex") || r.PostForm.Has("startRow") {
			t.Fatalf("insert must not send a row position: %v", r.PostForm)
		}
		var row []any
		if err := json.Unmarshal([]byte(r.PostForm.Get("rowData")), &row); err != nil {
			t.Fatalf("rowData: %v", err)
		}
		if len(row) != 3 || row[0] != "IN-001_1" || row[2] != "40" {
			t.Fatalf("rowData = %v", row)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	if err := s.Insert(context.Background(), "LIFT", []any{"IN-001_1", "", "40"}); err != nil {
		t.Fatalf("Insert() = %v", err)
	}
}

func TestHTTPStoreBatchInsertSendsRowsAndStart(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("action") != "batchInsert" || r.PostForm.Get("sheetName") != "INDENT" || r.PostForm.Get("startRow") != "7" {
			t.Fatalf("form = %v", r.PostForm)
		}
		var rows [][]any
		if err := json.Unmarshal([]byte(r.PostForm.Get("rowsData")), &rows); err != nil {
			t.Fatalf("rowsData: %v", err)
		}
		if len(rows) != 2 || rows[0][0] != "IN-1" || rows[1][0] != "IN-2" || len(rows[1]) != 2 {
			t.Fatalf("rowsData = %v", rows)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	rows := [][]any{{"IN-1", "Cement"}, {"IN-2", "Steel"}}
	if err := s.BatchInsert(context.Background(), "INDENT", rows, 7); err != nil {
		t.Fatalf("BatchInsert() = %v", err)
	}
}

func TestHTTPStoreRejectedAndStatusErrors(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		switch r.PostForm.Get("action") {
		case "insert":
			_, _ = w.Write([]byte(`{"success":false,"error":"sheet locked"}`))
		default:
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}
	})
	err := s.Insert(context.Background(), "LIFT", []any{"a"})
	if !errors.Is(err, ErrRejected) || !strings.Contains(err.Error(), "sheet locked") {
		t.Fatalf("Insert() = %v, want ErrRejected with reason", err)
	}
	err = s.BatchInsert(context.Background(), "LIFT", [][]any{{"a"}}, 5)
	if err == nil || errors.Is(err, ErrRejected) || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("BatchInsert() = %v, want status error", err)
	}
}

func TestHTTPStoreUploadFile(t *testing.T) {
	s := newTestHTTPStore(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		data, err := base64.StdEncoding.DecodeString(r.PostForm.Get("base64Data"))
		if err != nil || string(data) != "pdf-bytes" {
			t.Fatalf("base64Data = %q (%v)", r.PostForm.Get("base64Data"), err)
		}
		if r.PostForm.Get("fileName") != "po.pdf" || r.PostForm.Get("folderId") != "F1" || r.PostForm.Get("mimeType") != "application/pdf" {
			t.Fatalf("form = %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"success":true,"url":"https://files/po.pdf"}`))
	})
	link, err := s.UploadFile(context.Background(), entity.Attachment{
		FileName: "po.pdf", MimeType: "application/pdf", Data: []byte("pdf-bytes"), FolderID: "F1",
	})
	if err != nil || link != "https://files/po.pdf" {
		t.Fatalf("UploadFile() = %q,%v", link, err)
	}
	if _, err := s.UploadFile(context.Background(), entity.Attachment{FileName: "x"}); err == nil {
		t.Fatalf("UploadFile(empty) should fail")
	}
}

func TestNewHTTPStoreRequiresURL(t *testing.T) {
	if _, err := NewHTTPStore(HTTPConfig{}, nil); err == nil {
		t.Fatalf("NewHTTPStore() without url should fail")
	}
	if _, err := New(context.Background(), Options{Backend: "ftp"}, nil); err == nil {
		t.Fatalf("New(ftp) should fail")
	}
}
