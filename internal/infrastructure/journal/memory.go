package journal

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/domain/repository"
)

const memoryCapacity = 1000

// Memory fallback (server ish davomida), eng eski yozuvlar tashlanadi
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	entries []entity.JournalEntry
}

var _ repository.JournalRepository = (*Memory)(nil)

// NewMemory bo'sh jurnal
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, entries []entity.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.nextID++
		e.ID = m.nextID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		m.entries = append(m.entries, e)
	}
	if over := len(m.entries) - memoryCapacity; over > 0 {
		m.entries = append([]entity.JournalEntry(nil), m.entries[over:]...)
	}
	return nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]entity.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	res := make([]entity.JournalEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.entries[i])
	}
	return res, nil
}

func (m *Memory) Close() error { return nil }
