package schema

import (
	"strings"
	"testing"
)

func TestDefaultLayoutsValidate(t *testing.T) {
	for _, l := range []Layout{IndentLayout(), LiftLayout()} {
		if err := l.Validate(); err != nil {
			t.Fatalf("%s layout invalid: %v", l.Sheet, err)
		}
	}
}

func TestIndentLayoutDocumentedOffsets(t *testing.T) {
	l := IndentLayout()
	cases := map[Field]int{
		Timestamp:                       0,
		IndentID:                        1,
		Planned6:                        60,
		Actual6:                         61,
		RemainingQty:                    68,
		VendorField(1, QuoteName):       20,
		VendorField(2, QuoteName):       26,
		VendorField(3, QuoteAttachment): 37,
		Planned3:                        38,
	}
	for f, want := range cases {
		got, ok := l.Offset(f)
		if !ok || got != want {
			t.Fatalf("Offset(%s) = %d,%v, want %d", f, got, ok, want)
		}
	}
	if l.Width != 69 {
		t.Fatalf("width = %d, want 69", l.Width)
	}
}

func TestValidateRejectsSharedOffset(t *testing.T) {
	l := Layout{
		Sheet:    "X",
		Identity: "a",
		Width:    3,
		Fields:   map[Field]int{"a": 0, "b": 1, "c": 1},
	}
	err := l.Validate()
	if err == nil || !strings.Contains(err.Error(), "share offset 1") {
		t.Fatalf("expected shared offset error, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeAndMissingIdentity(t *testing.T) {
	l := Layout{Sheet: "X", Identity: "a", Width: 2, Fields: map[Field]int{"a": 0, "b": 2}}
	if err := l.Validate(); err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("expected range error, got %v", err)
	}
	l = Layout{Sheet: "X", Identity: "z", Width: 2, Fields: map[Field]int{"a": 0}}
	if err := l.Validate(); err == nil || !strings.Contains(err.Error(), "identity") {
		t.Fatalf("expected identity error, got %v", err)
	}
}

func TestRowValueShortRowIsNil(t *testing.T) {
	l := IndentLayout()
	row := Row{Index: 7, Cells: []any{"ts", "IN-001"}}
	if got := row.Value(l, IndentID); got != "IN-001" {
		t.Fatalf("Value(indent_id) = %v, want IN-001", got)
	}
	if got := row.Value(l, RemainingQty); got != nil {
		t.Fatalf("Value(remaining_qty) on short row = %v, want nil", got)
	}
	if got := row.Value(l, "unknown"); got != nil {
		t.Fatalf("Value(unknown) = %v, want nil", got)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	if _, err := NewRegistry(LiftLayout(), LiftLayout()); err == nil {
		t.Fatalf("expected duplicate sheet error")
	}
	reg := Default()
	if _, ok := reg.Get("INDENT"); !ok {
		t.Fatalf("default registry has no INDENT layout")
	}
}
