package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	connectAttemptsDefault = 20
	connectDelayDefault    = 2 * time.Second
	maintenanceDB          = "postgres"

	pqInvalidCatalog    = "3D000" // database "x" does not exist
	pqDuplicateDatabase = "42P04"
)

// PostgresConfig POSTGRES_* muhit o'zgaruvchilari
type PostgresConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	DB              string
	SSLMode         string
	AdminDSN        string
	ConnectAttempts int
	RetrySeconds    int
}

// target ulanish manzili: DSN bo'lsa o'sha parse qilinadi, aks holda alohida maydonlar
type target struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// BuildDSN jurnal bazasining URL ko'rinishi. Host, user yoki db bo'lmasa ""
// qaytadi (memory fallback).
func BuildDSN(cfg PostgresConfig) string {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn
	}
	t, ok := cfg.target()
	if !ok {
		return ""
	}
	return t.url(t.DBName)
}

func (c PostgresConfig) target() (target, bool) {
	var t target
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		t = parseTarget(dsn)
	} else {
		t = target{
			User:     strings.TrimSpace(c.User),
			Password: c.Password,
			Host:     strings.TrimSpace(c.Host),
			Port:     strings.TrimSpace(c.Port),
			DBName:   strings.TrimPrefix(strings.TrimSpace(c.DB), "/"),
			SSLMode:  strings.TrimSpace(c.SSLMode),
		}
	}
	if t.Host == "" || t.User == "" || t.DBName == "" {
		return target{}, false
	}
	if t.Port == "" {
		t.Port = "5432"
	}
	if t.SSLMode == "" {
		t.SSLMode = "disable"
	}
	return t, true
}

// retryPolicy POSTGRES_CONNECT_ATTEMPTS / POSTGRES_RETRY_SECONDS, 0 bo'lsa default
func (c PostgresConfig) retryPolicy() (int, time.Duration) {
	attempts := c.ConnectAttempts
	if attempts <= 0 {
		attempts = connectAttemptsDefault
	}
	delay := time.Duration(c.RetrySeconds) * time.Second
	if delay <= 0 {
		delay = connectDelayDefault
	}
	return attempts, delay
}

// adminDSNs CREATE DATABASE uchun urinish tartibi: POSTGRES_ADMIN_DSN, keyin
// o'sha serverdagi "postgres" bazasi
func (c PostgresConfig) adminDSNs(t target) []string {
	var out []string
	if admin := strings.TrimSpace(c.AdminDSN); admin != "" {
		out = append(out, admin)
	}
	if base := t.url(maintenanceDB); len(out) == 0 || out[0] != base {
		out = append(out, base)
	}
	return out
}

// parseTarget postgres:// URL yoki "key=value" DSN ni o'qiydi
func parseTarget(raw string) target {
	var t target
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		u, err := url.Parse(raw)
		if err != nil {
			return target{}
		}
		t.Host, t.Port = u.Hostname(), u.Port()
		t.DBName = strings.TrimPrefix(u.Path, "/")
		t.SSLMode = u.Query().Get("sslmode")
		if u.User != nil {
			t.User = u.User.Username()
			t.Password, _ = u.User.Password()
		}
		return t
	}
	fields := map[string]*string{
		"user":     &t.User,
		"username": &t.User,
		"password": &t.Password,
		"host":     &t.Host,
		"port":     &t.Port,
		"dbname":   &t.DBName,
		"database": &t.DBName,
		"sslmode":  &t.SSLMode,
	}
	for _, part := range strings.Fields(raw) {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if dst, known := fields[strings.ToLower(key)]; known {
			*dst = strings.Trim(val, `"'`)
		}
	}
	return t
}

func (t target) url(dbName string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(t.Host, t.Port),
		Path:   "/" + dbName,
	}
	switch {
	case t.User != "" && t.Password != "":
		u.User = url.UserPassword(t.User, t.Password)
	case t.User != "":
		u.User = url.User(t.User)
	}
	if t.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {t.SSLMode}}.Encode()
	}
	return u.String()
}

// ensureDatabase jurnal bazasi yo'q bo'lsa admin ulanishlardan biri orqali yaratadi
func ensureDatabase(ctx context.Context, cfg PostgresConfig) error {
	t, ok := cfg.target()
	if !ok {
		return fmt.Errorf("database info not found in dsn")
	}
	var lastErr error
	for _, admin := range cfg.adminDSNs(t) {
		if lastErr = createDatabase(ctx, admin, t.DBName); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func createDatabase(ctx context.Context, adminDSN, dbName string) error {
	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName))
	if err != nil && !hasCode(err, pqDuplicateDatabase) {
		return err
	}
	return nil
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func isDatabaseMissing(err error) bool {
	return hasCode(err, pqInvalidCatalog)
}
