package workflow

import (
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// Status bosqich holati. Hech qachon saqlanmaydi, har safar ustunlardan hisoblanadi.
type Status string

const (
	StatusNotReady  Status = "not_ready"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Ready qator bosqichga kirganmi: gate bo'lsa qiymat bo'yicha, aks holda
// planned ustuni bo'yicha; upstream bo'lsa uning actual ustuni ham kerak.
func Ready(row schema.Row, l schema.Layout, st StageDefinition, upstream *StageDefinition) bool {
	var ready bool
	if st.Gate != nil {
		got := strings.TrimSpace(CellString(row.Value(l, st.Gate.Field)))
		ready = strings.EqualFold(got, strings.TrimSpace(st.Gate.Token))
	} else {
		ready = Present(row.Value(l, st.Planned))
	}
	if ready && upstream != nil {
		ready = Present(row.Value(l, upstream.Actual))
	}
	return ready
}

// Classify sof funksiya: faqat joriy katak qiymatlariga bog'liq.
func Classify(row schema.Row, l schema.Layout, st StageDefinition, upstream *StageDefinition) Status {
	if !Ready(row, l, st, upstream) {
		return StatusNotReady
	}
	if st.Remaining != "" {
		// parse bo'lmagan remaining yo'q deb hisoblanadi
		if rem, ok := CellDecimal(row.Value(l, st.Remaining)); ok && rem.IsPositive() {
			return StatusPending
		}
	}
	if !Present(row.Value(l, st.Actual)) {
		return StatusPending
	}
	return StatusCompleted
}

// Partition qatorlarni pending va completed ga ajratadi, not_ready tashlanadi.
func Partition(rows []schema.Row, l schema.Layout, st StageDefinition, upstream *StageDefinition) (pending, completed []schema.Row) {
	for _, r := range rows {
		switch Classify(r, l, st, upstream) {
		case StatusPending:
			pending = append(pending, r)
		case StatusCompleted:
			completed = append(completed, r)
		}
	}
	return pending, completed
}
