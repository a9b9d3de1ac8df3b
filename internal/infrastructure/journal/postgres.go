package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// PostgresJournal yozuvlar jurnali PostgreSQL da
type PostgresJournal struct {
	db *sql.DB
}

var _ repository.JournalRepository = (*PostgresJournal)(nil)

func openWithRetry(ctx context.Context, cfg PostgresConfig, dsn string, log *zap.Logger) (*sql.DB, error) {
	attempts, delay := cfg.retryPolicy()

	var lastErr error
	created := false
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if !created && isDatabaseMissing(err) {
			if createErr := ensureDatabase(ctx, cfg); createErr == nil {
				created = true
				continue
			} else {
				lastErr = createErr
			}
		}
		log.Warn("postgres not ready", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

// NewPostgresJournal ulanadi va jadvalni yaratadi
func NewPostgresJournal(ctx context.Context, cfg PostgresConfig, log *zap.Logger) (*PostgresJournal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := BuildDSN(cfg)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	db, err := openWithRetry(ctx, cfg, dsn, log)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	schema := `
CREATE TABLE IF NOT EXISTS write_journal (
	id BIGSERIAL PRIMARY KEY,
	batch_id TEXT NOT NULL,
	stage_id TEXT NOT NULL,
	sheet TEXT NOT NULL,
	row_key TEXT NOT NULL,
	row_index INTEGER NOT NULL,
	action TEXT NOT NULL,
	success BOOLEAN NOT NULL,
	error TEXT,
	actor TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS write_journal_batch_idx ON write_journal (batch_id);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create write_journal table: %w", err)
	}
	return &PostgresJournal{db: db}, nil
}

// Record bitta tranzaksiyada yozadi
func (p *PostgresJournal) Record(ctx context.Context, entries []entity.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO write_journal (batch_id, stage_id, sheet, row_key, row_index, action, success, error, actor, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.BatchID, e.StageID, e.Sheet, e.Key, e.RowIndex, e.Action, e.Success, e.Error, e.Actor, created); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert journal entry %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

// ListRecent oxirgi yozuvlar (yangisi birinchi)
func (p *PostgresJournal) ListRecent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, batch_id, stage_id, sheet, row_key, row_index, action, success, error, actor, created_at
	FROM write_journal ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		var errText, actor sql.NullString
		if err := rows.Scan(&e.ID, &e.BatchID, &e.StageID, &e.Sheet, &e.Key, &e.RowIndex, &e.Action, &e.Success, &errText, &actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Error = errText.String
		e.Actor = actor.String
		res = append(res, e)
	}
	return res, rows.Err()
}

// Close ulanishni yopadi
func (p *PostgresJournal) Close() error {
	return p.db.Close()
}
