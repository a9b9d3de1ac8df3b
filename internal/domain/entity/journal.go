package entity

import "time"

// JournalEntry har bir qator yozuvining jurnali (rollback yo'q, faqat iz)
type JournalEntry struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id"`
	StageID   string    `json:"stage_id"`
	Sheet     string    `json:"sheet"`
	Key       string    `json:"key"`
	RowIndex  int       `json:"row_index"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
