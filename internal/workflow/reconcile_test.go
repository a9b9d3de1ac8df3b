package workflow

import (
	"errors"
	"testing"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

func TestReconcileStrictTrailingSpace(t *testing.T) {
	keys := []GroupingKey{{Vendor: "Acme", PONumber: "PO-7"}, {Vendor: "Acme ", PONumber: "PO-7"}}
	err := Reconcile(keys, false)
	var me *MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("Reconcile() err = %v, want MismatchError", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("MismatchError should be a validation error")
	}
	if me.Position != 1 || me.Expected.Vendor != "Acme" || me.Actual.Vendor != "Acme " {
		t.Fatalf("mismatch = %+v", me)
	}
	if err := Reconcile(keys, true); err != nil {
		t.Fatalf("Reconcile(normalize) err = %v, want nil", err)
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		keys []GroupingKey
		ok   bool
	}{
		{"empty", nil, true},
		{"single", []GroupingKey{{Vendor: "x"}}, true},
		{"same", []GroupingKey{{"Acme", "PO-7"}, {"Acme", "PO-7"}, {"Acme", "PO-7"}}, true},
		{"po differs", []GroupingKey{{"Acme", "PO-7"}, {"Acme", "PO-8"}}, false},
		{"last differs", []GroupingKey{{"Acme", "PO-7"}, {"Acme", "PO-7"}, {"Beta", "PO-7"}}, false},
	}
	for _, tt := range tests {
		err := Reconcile(tt.keys, false)
		if (err == nil) != tt.ok {
			t.Fatalf("%s: Reconcile() err = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestReconcileNormalizedCollapsesWhitespace(t *testing.T) {
	keys := []GroupingKey{{"Acme  Steel", "po-7"}, {" acme steel", "PO-7 "}}
	if err := Reconcile(keys, true); err != nil {
		t.Fatalf("Reconcile() = %v, want nil", err)
	}
}

func TestGroupingKeyOfResolvesSelectedVendor(t *testing.T) {
	l := schema.IndentLayout()
	row := makeRow(l, 7, map[schema.Field]any{
		schema.IndentID:                         "IN-1",
		schema.VendorField(1, schema.QuoteName): "Beta",
		schema.VendorField(2, schema.QuoteName): "Acme ",
		schema.SelectedVendor:                   "vendor2",
		schema.PONumber:                         "PO-7",
	})
	got := GroupingKeyOf(row, l)
	if got != (GroupingKey{Vendor: "Acme ", PONumber: "PO-7"}) {
		t.Fatalf("GroupingKeyOf() = %s", got)
	}

	lift := makeRow(schema.LiftLayout(), 2, map[schema.Field]any{
		schema.IndentID:   "IN-1",
		schema.VendorName: "Acme",
		schema.PONumber:   "PO-7",
	})
	if got := GroupingKeyOf(lift, schema.LiftLayout()); got != (GroupingKey{"Acme", "PO-7"}) {
		t.Fatalf("GroupingKeyOf(lift) = %s", got)
	}
}

func TestVendorIndex(t *testing.T) {
	cases := map[string]int{"vendor1": 1, "Vendor3": 3, "vendor4": 0, "acme": 0, "": 0}
	for in, want := range cases {
		if got := VendorIndex(in); got != want {
			t.Fatalf("VendorIndex(%q) = %d, want %d", in, got, want)
		}
	}
}
