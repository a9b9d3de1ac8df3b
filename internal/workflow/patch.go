package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// PatchMode qatorni qanday yozish
type PatchMode string

const (
	// PatchMerge oxirgi qatorni o'qib, patchni ustiga qo'yib yozadi
	PatchMerge PatchMode = "merge"
	// PatchSparse eski xulq: boshqa barcha ustunlar "" bilan yoziladi
	PatchSparse PatchMode = "sparse"
)

// ParsePatchMode bo'sh qiymat merge
func ParsePatchMode(s string) (PatchMode, error) {
	switch PatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PatchMerge:
		return PatchMerge, nil
	case PatchSparse:
		return PatchSparse, nil
	}
	return "", fmt.Errorf("unknown patch mode %q", s)
}

// Patch bitta qatorning bosqichga tegishli ustunlari
type Patch struct {
	Sheet    string
	RowIndex int
	Key      string
	Values   map[schema.Field]string
}

// Fields patch maydonlari tartiblangan holda
func (p Patch) Fields() []schema.Field {
	out := make([]schema.Field, 0, len(p.Values))
	for f := range p.Values {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate har bir maydon layoutda bor va bosqichga tegishli bo'lishi kerak
func (p Patch) Validate(l schema.Layout, owned []schema.Field) error {
	if p.RowIndex <= l.HeaderRows {
		return Invalid("row index %d is inside the header of %s", p.RowIndex, l.Sheet)
	}
	allowed := make(map[schema.Field]bool, len(owned))
	for _, f := range owned {
		allowed[f] = true
	}
	for _, f := range p.Fields() {
		if !l.Has(f) {
			return &FieldError{Field: f, Reason: "not in " + l.Sheet + " layout"}
		}
		if !allowed[f] {
			return &FieldError{Field: f, Reason: "not owned by this stage"}
		}
	}
	return nil
}

// BuildSparseRow eski usul: kenglik bo'yicha "" bilan to'ldirilgan qator,
// faqat patch ustunlari yoziladi.
func BuildSparseRow(l schema.Layout, p Patch) []any {
	row := make([]any, l.Width)
	for i := range row {
		row[i] = ""
	}
	apply(l, row, p)
	return row
}

// MergeRow joriy qator nusxasi ustiga patch. Yetishmayotgan kataklar "".
func MergeRow(l schema.Layout, current []any, p Patch) []any {
	width := l.Width
	if len(current) > width {
		width = len(current)
	}
	row := make([]any, width)
	for i := range row {
		if i < len(current) && current[i] != nil {
			row[i] = current[i]
		} else {
			row[i] = ""
		}
	}
	apply(l, row, p)
	return row
}

// Build rejimga qarab yoziladigan qatorni quradi
func (m PatchMode) Build(l schema.Layout, current []any, p Patch) []any {
	if m == PatchSparse {
		return BuildSparseRow(l, p)
	}
	return MergeRow(l, current, p)
}

func apply(l schema.Layout, row []any, p Patch) {
	for f, v := range p.Values {
		if off, ok := l.Offset(f); ok && off < len(row) {
			row[off] = v
		}
	}
}
