package config

import (
	"testing"
	"time"
)

func TestParseChatTarget(t *testing.T) {
	tests := []struct {
		raw        string
		wantChat   int64
		wantThread int
		wantErr    bool
	}{
		{"", 0, 0, false},
		{"-1001234567890", -1001234567890, 0, false},
		{"1001234567890/4", -1001234567890, 4, false},
		{"-1001234567890/-7  # purchase topic", -1001234567890, 7, false},
		{"-100/1/2", 0, 0, true},
		{"abc", 0, 0, true},
	}
	for _, tt := range tests {
		chat, thread, err := parseChatTarget(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseChatTarget(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if err == nil && (chat != tt.wantChat || thread != tt.wantThread) {
			t.Fatalf("parseChatTarget(%q) = %d,%d, want %d,%d", tt.raw, chat, thread, tt.wantChat, tt.wantThread)
		}
	}
}

func TestParseChatIDs(t *testing.T) {
	ids, err := parseChatIDs("123, -100456;789")
	if err != nil {
		t.Fatalf("parseChatIDs() error = %v", err)
	}
	if len(ids) != 3 || ids[0] != 123 || ids[1] != -100456 || ids[2] != 789 {
		t.Fatalf("parseChatIDs() = %v", ids)
	}
	if _, err := parseChatIDs("12,x"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALLOW_EMPTY_SECRETS", "true")
	t.Setenv("SHEET_BACKEND", "xlsx")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("SHEET_API_TIMEOUT", "45")
	t.Setenv("ADMIN_CHAT_IDS", "42")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.DayFirst {
		t.Fatalf("DayFirst = false, want true by default")
	}
	if cfg.PatchMode != "merge" {
		t.Fatalf("PatchMode = %q, want merge", cfg.PatchMode)
	}
	if cfg.SheetAPITimeout != 45*time.Second {
		t.Fatalf("SheetAPITimeout = %v, want 45s", cfg.SheetAPITimeout)
	}
	if cfg.DigestCron != DefaultDigestCron {
		t.Fatalf("DigestCron = %q", cfg.DigestCron)
	}
	if !cfg.IsAdmin(42) || cfg.IsAdmin(7) {
		t.Fatalf("IsAdmin mismatch for %v", cfg.AdminChatIDs)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ALLOW_EMPTY_SECRETS", "true")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("PATCH_MODE", "overwrite")
	if _, err := Load(); err == nil {
		t.Fatalf("expected PATCH_MODE error")
	}
	t.Setenv("PATCH_MODE", "sparse")
	t.Setenv("DATE_ORDER", "ymd")
	if _, err := Load(); err == nil {
		t.Fatalf("expected DATE_ORDER error")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ALLOW_EMPTY_SECRETS", "false")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing token error")
	}
}
