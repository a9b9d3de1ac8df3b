package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Init(dir)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	l.Info("lift recorded")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "poflow.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"lift recorded"`) {
		t.Fatalf("log file = %q, want JSON line with msg", data)
	}
}

func TestInitWithoutDirIsConsoleOnly(t *testing.T) {
	l, err := Init("")
	if err != nil || l == nil {
		t.Fatalf("Init(\"\") = %v, %v", l, err)
	}
	Sync()
}
