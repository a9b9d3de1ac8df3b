package entity

import (
	"fmt"
	"time"
)

// Yozuv turlari
const (
	ActionUpdate = "update"
	ActionInsert = "insert"
)

// RowOutcome bitta qatorga yozish natijasi
type RowOutcome struct {
	Key      string `json:"key"`
	Sheet    string `json:"sheet"`
	RowIndex int    `json:"row_index"`
	Action   string `json:"action"`
	Err      error  `json:"-"`
}

// OK yozuv muvaffaqiyatli bo'lganmi
func (o RowOutcome) OK() bool { return o.Err == nil }

// BatchResult bitta submit natijasi: "N of M succeeded"
type BatchResult struct {
	BatchID    string       `json:"batch_id"`
	StageID    string       `json:"stage_id"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Outcomes   []RowOutcome `json:"outcomes"`
	Warnings   []string     `json:"warnings,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Add natijaga yozuv qo'shadi
func (b *BatchResult) Add(o RowOutcome) {
	b.Outcomes = append(b.Outcomes, o)
	b.Total++
	if o.OK() {
		b.Succeeded++
	}
}

// Warn ogohlantirish qo'shadi
func (b *BatchResult) Warn(format string, args ...any) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}

// Failed muvaffaqiyatsiz yozuvlar
func (b BatchResult) Failed() []RowOutcome {
	var out []RowOutcome
	for _, o := range b.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Complete barcha yozuvlar muvaffaqiyatlimi
func (b BatchResult) Complete() bool {
	return b.Total > 0 && b.Succeeded == b.Total
}

// Summary "N of M succeeded" ko'rinishidagi qisqa matn
func (b BatchResult) Summary() string {
	return fmt.Sprintf("%d of %d succeeded", b.Succeeded, b.Total)
}
