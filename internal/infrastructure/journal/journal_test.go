package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/yourusername/po-workflow/internal/domain/entity"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{"explicit dsn wins", PostgresConfig{DSN: " postgres://a@b/c ", Host: "x"}, "postgres://a@b/c"},
		{"missing db", PostgresConfig{Host: "db", User: "po"}, ""},
		{"parts", PostgresConfig{Host: "db", User: "po", Password: "s3", DB: "/poflow"}, "postgres://po:s3@db:5432/poflow?sslmode=disable"},
		{"custom port and ssl", PostgresConfig{Host: "db", Port: "6543", User: "po", DB: "poflow", SSLMode: "require"}, "postgres://po@db:6543/poflow?sslmode=require"},
	}
	for _, tt := range tests {
		if got := BuildDSN(tt.cfg); got != tt.want {
			t.Fatalf("%s: BuildDSN() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPostgresConfigTarget(t *testing.T) {
	got, ok := PostgresConfig{DSN: "host=db user=po password='s3' dbname=poflow"}.target()
	if !ok || got.Host != "db" || got.Password != "s3" || got.DBName != "poflow" || got.Port != "5432" || got.SSLMode != "disable" {
		t.Fatalf("target(kv) = %+v, %v", got, ok)
	}
	got, ok = PostgresConfig{DSN: "postgresql://po:pw@db:7000/poflow?sslmode=verify-full"}.target()
	if !ok || got.Password != "pw" || got.Port != "7000" || got.SSLMode != "verify-full" {
		t.Fatalf("target(url) = %+v, %v", got, ok)
	}
	if u := got.url(maintenanceDB); !strings.HasSuffix(u, "@db:7000/postgres?sslmode=verify-full") {
		t.Fatalf("url() = %q", u)
	}
	if _, ok := (PostgresConfig{DSN: "sslmode=disable"}).target(); ok {
		t.Fatalf("target() without host should fail")
	}
}

func TestPostgresConfigAdminDSNs(t *testing.T) {
	cfg := PostgresConfig{Host: "db", User: "po", DB: "poflow", AdminDSN: "postgres://root@db/template1"}
	tgt, _ := cfg.target()
	got := cfg.adminDSNs(tgt)
	want := []string{"postgres://root@db/template1", "postgres://po@db:5432/postgres?sslmode=disable"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("adminDSNs() = %v, want %v", got, want)
	}
	cfg.AdminDSN = ""
	if got := cfg.adminDSNs(tgt); len(got) != 1 || got[0] != want[1] {
		t.Fatalf("adminDSNs() without admin = %v", got)
	}
}

func TestPostgresConfigRetryPolicy(t *testing.T) {
	attempts, delay := PostgresConfig{}.retryPolicy()
	if attempts != connectAttemptsDefault || delay != connectDelayDefault {
		t.Fatalf("retryPolicy() default = %d, %s", attempts, delay)
	}
	attempts, delay = PostgresConfig{ConnectAttempts: 3, RetrySeconds: 7}.retryPolicy()
	if attempts != 3 || delay != 7*time.Second {
		t.Fatalf("retryPolicy() = %d, %s, want 3, 7s", attempts, delay)
	}
}

func TestIsDatabaseMissing(t *testing.T) {
	missing := fmt.Errorf("ping: %w", &pq.Error{Code: pqInvalidCatalog})
	if !isDatabaseMissing(missing) {
		t.Fatalf("isDatabaseMissing(3D000) = false")
	}
	if isDatabaseMissing(&pq.Error{Code: pqDuplicateDatabase}) || isDatabaseMissing(errors.New("database does not exist")) {
		t.Fatalf("isDatabaseMissing() matched a non-3D000 error")
	}
}

func TestMemoryJournal(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.Record(ctx, []entity.JournalEntry{{Key: "IN-1"}, {Key: "IN-2"}}); err != nil {
		t.Fatal(err)
	}
	_ = m.Record(ctx, []entity.JournalEntry{{Key: "IN-3", Success: true}})
	got, _ := m.ListRecent(ctx, 2)
	if len(got) != 2 || got[0].Key != "IN-3" || got[1].Key != "IN-2" || got[0].ID != 3 {
		t.Fatalf("ListRecent() = %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}
	all, _ := m.ListRecent(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("ListRecent(0) len = %d, want 3", len(all))
	}
}

func TestMemoryJournalCapacity(t *testing.T) {
	m := NewMemory()
	batch := make([]entity.JournalEntry, memoryCapacity+5)
	_ = m.Record(context.Background(), batch)
	all, _ := m.ListRecent(context.Background(), 0)
	if len(all) != memoryCapacity || all[len(all)-1].ID != 6 {
		t.Fatalf("len = %d, oldest id = %d", len(all), all[len(all)-1].ID)
	}
}

func TestOpenWithoutPostgresFallsBackToMemory(t *testing.T) {
	j := Open(context.Background(), PostgresConfig{}, nil)
	if _, ok := j.(*Memory); !ok {
		t.Fatalf("Open() = %T, want *Memory", j)
	}
}
