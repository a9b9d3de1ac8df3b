package repository

import (
	"context"

	"github.com/yourusername/po-workflow/internal/domain/entity"
)

// JournalRepository har bir qator yozuvining izini saqlaydi
type JournalRepository interface {
	Record(ctx context.Context, entries []entity.JournalEntry) error
	ListRecent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
	Close() error
}
