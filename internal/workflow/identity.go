package workflow

import (
	"fmt"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

// CompositeKey tanlov kaliti: indent_lift, faqat indent, yoki row-<index>.
// Indent ham bo'sh bo'lsa kalit re-fetch lar orasida barqaror emas.
func CompositeKey(indentID, liftNumber string, rowIndex int) string {
	indentID = strings.TrimSpace(indentID)
	liftNumber = strings.TrimSpace(liftNumber)
	switch {
	case indentID != "" && liftNumber != "":
		return indentID + "_" + liftNumber
	case indentID != "":
		return indentID
	default:
		return fmt.Sprintf("row-%d", rowIndex)
	}
}

// RowKey qatorning composite kaliti; lift_number ustuni bo'lmagan sheet
// uchun faqat indent.
func RowKey(r schema.Row, l schema.Layout) string {
	indentID := CellString(r.Value(l, l.Identity))
	liftNo := ""
	if l.Has(schema.LiftNumber) {
		liftNo = CellString(r.Value(l, schema.LiftNumber))
	}
	return CompositeKey(indentID, liftNo, r.Index)
}
