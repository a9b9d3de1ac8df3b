package workflow

import (
	"testing"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

func TestClassifyTwoSlotRule(t *testing.T) {
	l := schema.IndentLayout()
	st, up, _ := mustStage("approval")
	tests := []struct {
		name   string
		values map[schema.Field]any
		want   Status
	}{
		{"no planned", map[schema.Field]any{schema.IndentID: "IN-1"}, StatusNotReady},
		{"planned is dash", map[schema.Field]any{schema.IndentID: "IN-1", schema.Planned1: "-"}, StatusNotReady},
		{"planned only", map[schema.Field]any{schema.IndentID: "IN-1", schema.Planned1: "05/03/2024"}, StatusPending},
		{"actual is dash", map[schema.Field]any{schema.IndentID: "IN-1", schema.Planned1: "05/03/2024", schema.Actual1: " - "}, StatusPending},
		{"planned and actual", map[schema.Field]any{schema.IndentID: "IN-1", schema.Planned1: "05/03/2024", schema.Actual1: "06/03/2024"}, StatusCompleted},
	}
	for _, tt := range tests {
		row := makeRow(l, 7, tt.values)
		if got := Classify(row, l, st, up); got != tt.want {
			t.Fatalf("%s: Classify() = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestClassifyApprovalGate(t *testing.T) {
	l := schema.IndentLayout()
	st, up, _ := mustStage("quotation")
	if up == nil || up.ID != "approval" {
		t.Fatalf("quotation upstream = %v, want approval", up)
	}
	base := map[schema.Field]any{schema.IndentID: "IN-1", schema.Actual1: "06/03/2024"}

	tests := []struct {
		status string
		actual any
		want   Status
	}{
		{" Approved ", nil, StatusPending},
		{"APPROVED", "07/03/2024", StatusCompleted},
		{"rejected", nil, StatusNotReady},
		{"", nil, StatusNotReady},
	}
	for _, tt := range tests {
		values := map[schema.Field]any{schema.ApprovalStatus: tt.status}
		for k, v := range base {
			values[k] = v
		}
		if tt.actual != nil {
			values[schema.Actual2] = tt.actual
		}
		if got := Classify(makeRow(l, 8, values), l, st, up); got != tt.want {
			t.Fatalf("status %q: Classify() = %s, want %s", tt.status, got, tt.want)
		}
	}

	// approved lekin upstream actual yo'q
	row := makeRow(l, 8, map[schema.Field]any{schema.IndentID: "IN-1", schema.ApprovalStatus: "approved"})
	if got := Classify(row, l, st, up); got != StatusNotReady {
		t.Fatalf("Classify() without upstream actual = %s, want not_ready", got)
	}
}

func TestClassifyRemainingKeepsDispatchPending(t *testing.T) {
	l := schema.IndentLayout()
	st, up, _ := mustStage("dispatch")
	values := map[schema.Field]any{
		schema.IndentID: "IN-001",
		schema.Actual5:  "04/03/2024",
		schema.Planned6: "04/03/2024",
	}
	row := makeRow(l, 9, values)
	if got := Classify(row, l, st, up); got != StatusPending {
		t.Fatalf("before first lift = %s, want pending", got)
	}

	values[schema.Actual6] = "05/03/2024"
	values[schema.RemainingQty] = "60"
	row = makeRow(l, 9, values)
	if got := Classify(row, l, st, up); got != StatusPending {
		t.Fatalf("remaining 60 = %s, want pending", got)
	}

	values[schema.RemainingQty] = 0.0
	row = makeRow(l, 9, values)
	if got := Classify(row, l, st, up); got != StatusCompleted {
		t.Fatalf("remaining 0 = %s, want completed", got)
	}

	values[schema.RemainingQty] = "n/a"
	row = makeRow(l, 9, values)
	if got := Classify(row, l, st, up); got != StatusCompleted {
		t.Fatalf("unparsable remaining = %s, want completed", got)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	l := schema.IndentLayout()
	defs := DefaultDefinitions()
	row := makeRow(l, 10, map[schema.Field]any{
		schema.IndentID:       "IN-9",
		schema.Planned1:       "01/03/2024",
		schema.Actual1:        "02/03/2024",
		schema.ApprovalStatus: "approved",
		schema.Planned6:       "x",
		schema.RemainingQty:   "5",
	})
	for _, st := range defs.Stages {
		if st.Sheet != l.Sheet {
			continue
		}
		up := defs.Upstream(st)
		first := Classify(row, l, st, up)
		if second := Classify(row, l, st, up); first != second {
			t.Fatalf("stage %s: Classify() not idempotent: %s then %s", st.ID, first, second)
		}
	}
}

func TestClassifyShortRowIsNotReady(t *testing.T) {
	l := schema.IndentLayout()
	st, up, _ := mustStage("follow_up")
	row := schema.Row{Index: 7, Cells: []any{"ts", "IN-1"}}
	if got := Classify(row, l, st, up); got != StatusNotReady {
		t.Fatalf("Classify(short row) = %s, want not_ready", got)
	}
}

func TestPartition(t *testing.T) {
	l := schema.LiftLayout()
	st, up, _ := mustStage("receipt")
	rows := []schema.Row{
		makeRow(l, 2, map[schema.Field]any{schema.IndentID: "IN-1", schema.LiftNumber: "1", schema.PlannedReceipt: "01/03/2024"}),
		makeRow(l, 3, map[schema.Field]any{schema.IndentID: "IN-1", schema.LiftNumber: "2", schema.PlannedReceipt: "01/03/2024", schema.ActualReceipt: "02/03/2024"}),
		makeRow(l, 4, map[schema.Field]any{schema.IndentID: "IN-2", schema.LiftNumber: "1"}),
	}
	pending, completed := Partition(rows, l, st, up)
	if len(pending) != 1 || pending[0].Index != 2 {
		t.Fatalf("pending = %+v, want row 2", pending)
	}
	if len(completed) != 1 || completed[0].Index != 3 {
		t.Fatalf("completed = %+v, want row 3", completed)
	}
}
