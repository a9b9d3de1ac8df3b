package journal

import (
	"context"

	"github.com/yourusername/po-workflow/internal/domain/repository"
	"go.uber.org/zap"
)

// Open DSN bo'lsa Postgres, aks holda (yoki ulanmasa) memory
func Open(ctx context.Context, cfg PostgresConfig, log *zap.Logger) repository.JournalRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if BuildDSN(cfg) == "" {
		log.Info("journal: postgres not configured, using memory")
		return NewMemory()
	}
	store, err := NewPostgresJournal(ctx, cfg, log)
	if err != nil {
		log.Warn("journal: postgres ulanmadi, memory ga qaytdi", zap.Error(err))
		return NewMemory()
	}
	return store
}
